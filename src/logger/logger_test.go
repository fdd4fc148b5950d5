// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/slcs/org.glite.slcs.common/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, output string) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for i, line := range strings.Split(strings.TrimSpace(output), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %d: failed to parse JSON: %s", i+1, line)
		entries = append(entries, entry)
	}
	return entries
}

func TestCLILogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Printf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Printf("test message: %s", "hello")

				assert.Equal(t, "test message: hello\n", buf.String())
			},
		},
		{
			name: "Println",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Println("test", "message")

				assert.Contains(t, buf.String(), "test message")
			},
		},
		{
			name: "Levels",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Warnf("unknown key usage %q", "bogus")
				log.Errorf("cannot write %s", "key.pem")

				assert.Equal(t, "warning: unknown key usage \"bogus\"\nerror: cannot write key.pem\n", buf.String())
			},
		},
		{
			name: "Debug_RequiresVerbose",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				log.Debugf("hidden")
				assert.Zero(t, buf.Len(), "debug output without verbose")

				log.SetVerbose(true)
				log.Debugf("shown %d", 1)
				assert.Equal(t, "debug: shown 1\n", buf.String())
			},
		},
		{
			name: "SetOutput",
			testFunc: func(t *testing.T) {
				var buf1, buf2 bytes.Buffer
				log := logger.NewCLILogger()

				log.SetOutput(&buf1)
				log.Println("first")

				log.SetOutput(&buf2)
				log.Println("second")

				assert.Contains(t, buf1.String(), "first")
				assert.Contains(t, buf2.String(), "second")
				assert.NotContains(t, buf1.String(), "second")
			},
		},
		{
			name: "ConcurrentUsage",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewCLILogger()
				log.SetOutput(&buf)

				const numGoroutines = 50
				const messagesPerGoroutine = 10

				var wg sync.WaitGroup
				wg.Add(numGoroutines)

				for i := range numGoroutines {
					go func(id int) {
						defer wg.Done()
						for j := range messagesPerGoroutine {
							log.Warnf("goroutine %d message %d", id, j)
						}
					}(i)
				}

				wg.Wait()

				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				assert.Len(t, lines, numGoroutines*messagesPerGoroutine)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestJSONLogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Printf_JSON",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Printf("test message: %s", "hello")

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "info", entries[0]["level"])
				assert.Equal(t, "test message: hello", entries[0]["message"])
				assert.NotEmpty(t, entries[0]["time"])
			},
		},
		{
			name: "Println_JSON",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Println("serial", 42)

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "serial 42", entries[0]["message"])
			},
		},
		{
			name: "Levels",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Debugf("dropped")
				log.Warnf("w")
				log.Errorf("e")

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 2)
				assert.Equal(t, "warn", entries[0]["level"])
				assert.Equal(t, "error", entries[1]["level"])
			},
		},
		{
			name: "Debug_Enabled",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, true)

				log.Debugf("walking chain of %d", 3)

				entries := decodeLines(t, buf.String())
				require.Len(t, entries, 1)
				assert.Equal(t, "debug", entries[0]["level"])
				assert.Equal(t, "walking chain of 3", entries[0]["message"])
			},
		},
		{
			name: "SetOutput_Nil",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				log.Println("before")
				log.SetOutput(nil)
				log.Println("after")

				assert.Contains(t, buf.String(), "before")
				assert.NotContains(t, buf.String(), "after")
			},
		},
		{
			name: "NilWriter",
			testFunc: func(t *testing.T) {
				log := logger.NewJSONLogger(nil, false)

				assert.NotPanics(t, func() {
					log.Printf("test")
					log.Errorf("test")
				})
			},
		},
		{
			name: "JSONEscaping",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.NewJSONLogger(&buf, false)

				inputs := []string{
					`CN=Foo\+Bar,O=SWITCH,C=CH`,
					`test"quote`,
					"test\nnewline\ttab",
					"test\x01control",
				}

				for _, input := range inputs {
					buf.Reset()
					log.Printf("%s", input)

					entries := decodeLines(t, buf.String())
					require.Len(t, entries, 1)
					assert.Equal(t, input, entries[0]["message"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestJSONLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, false)

	const numGoroutines = 50
	const messagesPerGoroutine = 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := range numGoroutines {
		go func(id int) {
			defer wg.Done()
			for j := range messagesPerGoroutine {
				log.Printf("goroutine %d message %d", id, j)
			}
		}(i)
	}

	wg.Wait()

	entries := decodeLines(t, buf.String())
	assert.Len(t, entries, numGoroutines*messagesPerGoroutine)
	for _, entry := range entries {
		assert.Equal(t, "info", entry["level"])
	}
}

func TestDiscard(t *testing.T) {
	assert.Equal(t, logger.Discard, logger.OrDiscard(nil))

	cli := logger.NewCLILogger()
	assert.Same(t, cli, logger.OrDiscard(cli))

	assert.NotPanics(t, func() {
		logger.Discard.Printf("x")
		logger.Discard.Errorf("x")
		logger.Discard.SetOutput(nil)
	})
}

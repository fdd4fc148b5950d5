// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads the SLCS client configuration from JSON or YAML
// files and turns it into the algorithm registry used by the key, request
// and trust packages.
package config

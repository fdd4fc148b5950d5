// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509dn_test

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"

	x509dn "github.com/slcs/org.glite.slcs.common/src/internal/x509/dn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	oidCN = asn1.ObjectIdentifier{2, 5, 4, 3}
	oidO  = asn1.ObjectIdentifier{2, 5, 4, 10}
	oidC  = asn1.ObjectIdentifier{2, 5, 4, 6}
)

func attrs(rdn x509dn.RDN) []string {
	out := make([]string, len(rdn))
	for i, a := range rdn {
		out[i] = a.Keyword() + ":" + a.Value
	}
	return out
}

func TestParse_MultiValuedOrdering(t *testing.T) {
	const dn = "CN=A+CN=B,O=Example,C=US"

	name, err := x509dn.Parse(dn)
	require.NoError(t, err)
	require.Equal(t, 3, name.Len())

	display := name.RDNs()
	assert.Equal(t, []string{"CN:A", "CN:B"}, attrs(display[0]))
	assert.Equal(t, []string{"O:Example"}, attrs(display[1]))
	assert.Equal(t, []string{"C:US"}, attrs(display[2]))

	sequence := name.Sequence()
	assert.Equal(t, []string{"C:US"}, attrs(sequence[0]), "encoding order starts at the root-most RDN")
	assert.Equal(t, []string{"CN:A", "CN:B"}, attrs(sequence[2]))

	assert.Equal(t, dn, name.String())
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		dn   string
	}{
		{name: "EscapedPlus", dn: `CN=Foo\+Bar,O=SWITCH,C=CH`},
		{name: "Mixed", dn: `DC=Hello\; World!,CN=Foo\+Bar,O=A+O=B+O=C,O=Test+OU=Java,C=CH`},
		{name: "EscapedSpecials", dn: `DC=demo,DC=mams,DC=slcs,O=MAMS,CN=Dummy\+\;\=aghf`},
		{name: "EscapedEquals", dn: `DC=test,CN=Test\=Equal`},
		{name: "MultiValuedDC", dn: `DC=A+DC=B+DC=E,DC=JUnitTest,CN=X+CN=Y+CN=Y+DC=Z+O=AU`},
		{name: "LongOrganization", dn: `DC=ch+DC=switch+DC=slcs,O=Switch - Teleinformatikdienste fuer Lehre und Forschung,CN=Jane Doe\+9FEE5EE3`},
		{name: "HexPairs", dn: `CN=Z\C3\BCrich,C=CH`},
		{name: "EscapedComma", dn: `L=Mel\,Bourne,C=AU`},
		{name: "EscapedLeadingHash", dn: `CN=\#1,O=x`},
		{name: "EscapedTrailingSpace", dn: `CN=foo\ ,O=x`},
		{name: "EscapedBackslash", dn: `CN=back\\slash`},
		{name: "UnknownOID", dn: `1.2.3.4=bar,CN=foo`},
		{name: "HexValue", dn: `CN=#0c03666f6f`},
		{name: "EmptyValue", dn: `CN=,O=x`},
		{name: "EscapedQuotes", dn: `CN=say \"hi\, there\",O=X`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := x509dn.Parse(tt.dn)
			require.NoError(t, err)
			assert.Equal(t, tt.dn, name.String())
		})
	}
}

func TestParse_Canonicalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "QuotedValue", in: `DC=demo,DC=mams,DC=slcs,O=MAMS,CN="Dummy+;aghf="`, want: `DC=demo,DC=mams,DC=slcs,O=MAMS,CN=Dummy\+\;aghf\=`},
		{name: "QuotedInMultiValued", in: `DC=test+CN="Test=Equal"`, want: `DC=test+CN=Test\=Equal`},
		{name: "Whitespace", in: ` CN = Foo , O= Bar `, want: `CN=Foo,O=Bar`},
		{name: "SemicolonSeparator", in: `CN=Foo;O=Bar`, want: `CN=Foo,O=Bar`},
		{name: "LowercaseKeywords", in: `cn=foo,o=bar,dc=ch`, want: `CN=foo,O=bar,DC=ch`},
		{name: "KeywordAliases", in: `EMAILADDRESS=a@b.ch,SN=42,TITLE=Dr`, want: `E=a@b.ch,SERIALNUMBER=42,T=Dr`},
		{name: "DottedKnownOID", in: `2.5.4.3=foo,OID.2.5.4.10=bar`, want: `CN=foo,O=bar`},
		{name: "UnescapedAngle", in: `CN=a<b>c`, want: `CN=a\<b\>c`},
		{name: "InnerQuotes", in: `CN=say "hi" there,O=X`, want: `CN=say \"hi\" there,O=X`},
		{name: "QuotedAfterSpace", in: `CN= "a,b"+O=x`, want: `CN=a\,b+O=x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := x509dn.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, name.String())

			again, err := x509dn.Parse(name.String())
			require.NoError(t, err)
			assert.True(t, name.Equal(again), "canonical form must parse to the same name")
		})
	}
}

func TestParse_Values(t *testing.T) {
	name, err := x509dn.Parse(`CN="Dummy+;aghf=",CN=Z\C3\BCrich,DC=ch+DC=switch,O=#0c03666f6f`)
	require.NoError(t, err)

	assert.Equal(t, []string{"Dummy+;aghf=", "Zürich"}, name.Values("cn"))
	assert.Equal(t, []string{"ch", "switch"}, name.Values("DC"))
	assert.Equal(t, []string{"foo"}, name.Values("O"))
	assert.Nil(t, name.Values("NOPE"))

	cn, ok := name.Value("CN")
	assert.True(t, ok)
	assert.Equal(t, "Dummy+;aghf=", cn)
	_, ok = name.Value("OU")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		dn   string
	}{
		{name: "MissingEquals", dn: "DC=CH,hello"},
		{name: "UnknownKeyword", dn: "FOO=bar,C=CH"},
		{name: "EmptyRDN", dn: "CN=a,,O=b"},
		{name: "TrailingSeparator", dn: "CN=a,"},
		{name: "EmptyPlusMember", dn: "CN=a+,O=b"},
		{name: "MissingType", dn: "=foo"},
		{name: "TrailingBackslash", dn: `CN=foo\`},
		{name: "UnterminatedQuote", dn: `CN="abc`},
		{name: "InvalidEscape", dn: `CN=a\q`},
		{name: "InvalidHex", dn: "CN=#zz"},
		{name: "TruncatedDER", dn: "CN=#0c03666f"},
		{name: "InvalidUTF8", dn: `CN=\C3\28`},
		{name: "InvalidOID", dn: "3.1=foo"},
		{name: "InnerQuoteBeforeComma", dn: `CN=say "hi, there",O=X`},
		{name: "InnerQuoteBeforePlus", dn: `CN=a"b+c"d,O=X`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, err := x509dn.Parse(tt.dn)
			require.Error(t, err)
			assert.Nil(t, name)
			assert.ErrorIs(t, err, x509dn.ErrMalformedName)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		name, err := x509dn.Parse(in)
		require.NoError(t, err)
		assert.True(t, name.IsEmpty())
		assert.Empty(t, name.String())

		der, err := name.Marshal()
		require.NoError(t, err)
		assert.Equal(t, []byte{0x30, 0x00}, der)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "Foo+Bar", want: `Foo\+Bar`},
		{in: `a,b;c=d<e>f"g\h`, want: `a\,b\;c\=d\<e\>f\"g\\h`},
		{in: "#1", want: `\#1`},
		{in: "Room #5", want: "Room #5"},
		{in: "tag#", want: "tag#"},
		{in: " padded ", want: `\ padded\ `},
		{in: "tab\there", want: `tab\09here`},
		{in: "Zürich", want: "Zürich"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, x509dn.Escape(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	cn, err := x509dn.NewAttribute("CN", "Foo,Bar")
	require.NoError(t, err)
	c, err := x509dn.NewAttribute("c", "CH")
	require.NoError(t, err)

	name := x509dn.New(x509dn.RDN{cn}, x509dn.RDN{c})
	assert.Equal(t, `CN=Foo\,Bar,C=CH`, name.String())

	parsed, err := x509dn.Parse(`CN="Foo,Bar",C=CH`)
	require.NoError(t, err)
	assert.True(t, name.Equal(parsed))

	_, err = x509dn.NewAttribute("BOGUS", "x")
	assert.ErrorIs(t, err, x509dn.ErrMalformedName)
}

func TestMarshal(t *testing.T) {
	name, err := x509dn.Parse("E=jane@example.org,CN=Jane Doe,O=Example,C=US")
	require.NoError(t, err)

	der, err := name.Marshal()
	require.NoError(t, err)

	var seq pkix.RDNSequence
	rest, err := asn1.Unmarshal(der, &seq)
	require.NoError(t, err)
	assert.Empty(t, rest)

	require.Len(t, seq, 4)
	assert.True(t, seq[0][0].Type.Equal(oidC))
	assert.Equal(t, "US", seq[0][0].Value)
	assert.True(t, seq[1][0].Type.Equal(oidO))
	assert.True(t, seq[2][0].Type.Equal(oidCN))
	assert.Equal(t, "jane@example.org", seq[3][0].Value)

	var std pkix.Name
	std.FillFromRDNSequence(&seq)
	assert.Equal(t, "Jane Doe", std.CommonName)
	assert.Equal(t, []string{"Example"}, std.Organization)

	decoded, err := x509dn.Unmarshal(der)
	require.NoError(t, err)
	assert.True(t, name.Equal(decoded))
	assert.Equal(t, name.String(), decoded.String())
}

func TestMarshal_StringTypes(t *testing.T) {
	name, err := x509dn.Parse(`E=jane@example.org,CN=Zürich,C=CH`)
	require.NoError(t, err)

	der, err := name.Marshal()
	require.NoError(t, err)

	var seq []asn1.RawValue
	_, err = asn1.Unmarshal(der, &seq)
	require.NoError(t, err)

	tagOf := func(set asn1.RawValue) int {
		var atv struct {
			Type  asn1.ObjectIdentifier
			Value asn1.RawValue
		}
		var members []asn1.RawValue
		_, err := asn1.UnmarshalWithParams(set.FullBytes, &members, "set")
		require.NoError(t, err)
		_, err = asn1.Unmarshal(members[0].FullBytes, &atv)
		require.NoError(t, err)
		return atv.Value.Tag
	}

	assert.Equal(t, asn1.TagPrintableString, tagOf(seq[0]), "C")
	assert.Equal(t, asn1.TagUTF8String, tagOf(seq[1]), "CN")
	assert.Equal(t, asn1.TagIA5String, tagOf(seq[2]), "E")
}

func TestMarshal_SortsMultiValued(t *testing.T) {
	name, err := x509dn.Parse("CN=C+CN=A+CN=B,O=SWITCH,C=CH")
	require.NoError(t, err)

	der, err := name.Marshal()
	require.NoError(t, err)

	decoded, err := x509dn.Unmarshal(der)
	require.NoError(t, err)
	assert.Equal(t, "CN=A+CN=B+CN=C,O=SWITCH,C=CH", decoded.String())
	assert.Equal(t, 3, decoded.Len())
}

func TestUnmarshal_ForeignTypes(t *testing.T) {
	seq := pkix.RDNSequence{
		{{Type: oidC, Value: asn1.RawValue{Tag: 30, Bytes: []byte{0x00, 'C', 0x00, 'H'}}}},
		{{Type: oidO, Value: asn1.RawValue{Tag: asn1.TagT61String, Bytes: []byte{'Z', 0xfc, 'r', 'i', 'c', 'h'}}}},
		{{Type: asn1.ObjectIdentifier{1, 2, 3, 4}, Value: 42}},
	}
	der, err := asn1.Marshal(seq)
	require.NoError(t, err)

	name, err := x509dn.Unmarshal(der)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3.4=#02012a,O=Zürich,C=CH", name.String())

	again, err := name.Marshal()
	require.NoError(t, err)
	decoded, err := x509dn.Unmarshal(again)
	require.NoError(t, err)
	assert.Equal(t, name.String(), decoded.String())
}

func TestUnmarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		der  []byte
	}{
		{name: "Empty", der: nil},
		{name: "NotSequence", der: []byte{0x31, 0x00}},
		{name: "TrailingData", der: []byte{0x30, 0x00, 0x00}},
		{name: "EmptySet", der: []byte{0x30, 0x02, 0x31, 0x00}},
		{name: "NotSet", der: []byte{0x30, 0x02, 0x30, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := x509dn.Unmarshal(tt.der)
			assert.ErrorIs(t, err, x509dn.ErrMalformedName)
		})
	}
}

func TestOIDAndKeyword(t *testing.T) {
	oid, ok := x509dn.OID("emailAddress")
	require.True(t, ok)
	assert.Equal(t, "E", x509dn.Keyword(oid))

	oid, ok = x509dn.OID("1.3.6.1.4.1.99")
	require.True(t, ok)
	assert.Equal(t, "1.3.6.1.4.1.99", x509dn.Keyword(oid))

	_, ok = x509dn.OID("nope")
	assert.False(t, ok)
}

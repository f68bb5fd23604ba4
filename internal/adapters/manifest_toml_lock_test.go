package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"depwarden/internal/types"
)

const samplePoetryLock = `# This file is automatically @generated by Poetry.

[[package]]
name = "requests"
version = "2.31.0"
description = "Python HTTP for Humans."
optional = false
python-versions = ">=3.7"

[[package]]
name = "Markdown_It-py"
version = "3.0.0"
description = ""
optional = true
python-versions = ">=3.8"

[metadata]
lock-version = "2.0"
python-versions = "^3.11"
`

func TestPoetryLockParse(t *testing.T) {
	parser := NewPoetryLockParser()
	snapshot, err := parser.Parse("poetry.lock", []byte(samplePoetryLock))
	require.NoError(t, err)

	require.Equal(t, types.ManifestKindPoetryLock, snapshot.Kind)
	require.NotEmpty(t, snapshot.Fingerprint)
	require.Len(t, snapshot.Records, 2)

	require.Equal(t, "requests", snapshot.Records[0].Name)
	require.Equal(t, "2.31.0", snapshot.Records[0].ResolvedVersion)
	require.Equal(t, types.EcosystemPyPI, snapshot.Records[0].Ecosystem)
	require.False(t, snapshot.Records[0].Transitive)
	require.Equal(t, "Python HTTP for Humans.", snapshot.Records[0].RawMetadata["description"])

	// Name casing is preserved at parse time; normalization is the
	// identity resolver's job.
	require.Equal(t, "Markdown_It-py", snapshot.Records[1].Name)
	require.Equal(t, "true", snapshot.Records[1].RawMetadata["optional"])
}

func TestUvLockParse(t *testing.T) {
	text := `version = 1
requires-python = ">=3.12"

[[package]]
name = "anyio"
version = "4.3.0"
source = { registry = "https://pypi.org/simple" }
dependencies = [
    { name = "idna" },
]

[[package]]
name = "idna"
version = "3.6"
source = { registry = "https://pypi.org/simple" }
`
	parser := NewUvLockParser()
	snapshot, err := parser.Parse("uv.lock", []byte(text))
	require.NoError(t, err)

	require.Equal(t, types.ManifestKindUvLock, snapshot.Kind)
	require.Len(t, snapshot.Records, 2)
	require.Equal(t, "anyio", snapshot.Records[0].Name)
	require.Equal(t, "4.3.0", snapshot.Records[0].ResolvedVersion)
	require.Equal(t, "https://pypi.org/simple", snapshot.Records[0].RawMetadata["source_registry"])
}

func TestTomlLockParseSkipsIncompleteEntries(t *testing.T) {
	text := `[[package]]
name = "no-version"

[[package]]
name = "complete"
version = "1.0.0"
`
	snapshot, err := NewPoetryLockParser().Parse("poetry.lock", []byte(text))
	require.NoError(t, err)
	require.Len(t, snapshot.Records, 1)
	require.Equal(t, "complete", snapshot.Records[0].Name)
}

func TestTomlLockParseMalformed(t *testing.T) {
	_, err := NewPoetryLockParser().Parse("poetry.lock", []byte("[[package]\nname ="))
	require.Error(t, err)

	_, err = NewPoetryLockParser().Parse("poetry.lock", []byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}

package adapters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"depwarden/internal/types"
)

func TestRequirementsParse(t *testing.T) {
	text := `# production pins
requests==2.31.0
flask==3.0.0  # web framework
uvloop==0.19.0 ; sys_platform != "win32"
celery[redis]==5.3.6

# not pinned, nothing to look up
numpy>=1.26
-r dev-requirements.txt
--index-url https://pypi.example.com/simple
`
	snapshot, err := NewRequirementsParser().Parse("requirements.txt", []byte(text))
	require.NoError(t, err)

	require.Equal(t, types.ManifestKindRequirements, snapshot.Kind)
	require.Len(t, snapshot.Records, 4)

	names := make([]string, 0, len(snapshot.Records))
	for _, record := range snapshot.Records {
		names = append(names, record.Name)
		require.False(t, record.Transitive)
		require.Equal(t, types.EcosystemPyPI, record.Ecosystem)
	}
	require.Equal(t, []string{"requests", "flask", "uvloop", "celery"}, names)

	require.Equal(t, "2.31.0", snapshot.Records[0].ResolvedVersion)
	require.Equal(t, "requests==2.31.0", snapshot.Records[0].RequestedSpecifier)
	require.Equal(t, "0.19.0", snapshot.Records[2].ResolvedVersion)
	require.Equal(t, "5.3.6", snapshot.Records[3].ResolvedVersion)
}

func TestRequirementsParseEmpty(t *testing.T) {
	snapshot, err := NewRequirementsParser().Parse("requirements.txt", []byte("# only comments\n\n"))
	require.NoError(t, err)
	require.Empty(t, snapshot.Records)
	require.NotEmpty(t, snapshot.Fingerprint)
}

func TestRequirementsParseBinaryRejected(t *testing.T) {
	_, err := NewRequirementsParser().Parse("requirements.txt", []byte{0xff, 0x00, 0xfe})
	require.Error(t, err)
}

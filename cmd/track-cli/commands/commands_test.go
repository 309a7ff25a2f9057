package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ip-tracker/internal/lookup"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	strict = false
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := run(t, "classify", "8.8.8.8", "google.com", "nope")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ipv4\t8.8.8.8\tipAddress=8.8.8.8", lines[0])
	assert.Equal(t, "domain\tgoogle.com\tdomain=google.com", lines[1])
	assert.Equal(t, "invalid\tnope\t", lines[2])
}

func TestClassifyCommand_Strict(t *testing.T) {
	out, err := run(t, "classify", "--strict", "example.com/path")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "invalid\t"))
}

func TestClassifyCommand_NoArgs(t *testing.T) {
	_, err := run(t, "classify")
	assert.Error(t, err)
}

func TestPrintRecord(t *testing.T) {
	var b bytes.Buffer
	printRecord(&b, &lookup.LocationRecord{
		IP:  "8.8.8.8",
		ISP: "Google LLC",
		Location: lookup.Location{
			Region: "California", City: "Mountain View", PostalCode: "94043",
			Timezone: "-07:00", Lat: 37.40599, Lng: -122.078514,
		},
	})
	s := b.String()
	assert.Contains(t, s, "IP Address: 8.8.8.8")
	assert.Contains(t, s, "Location:   Mountain View, California 94043")
	assert.Contains(t, s, "Timezone:   UTC -07:00")
	assert.Contains(t, s, "ISP:        Google LLC")
}

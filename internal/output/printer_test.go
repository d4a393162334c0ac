package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/nsfzt/ztctl/internal/types"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleMembers() []types.NetworkMember {
	return []types.NetworkMember{
		{
			Authorized:  true,
			MemberID:    "a1b2c3d4e5",
			Name:        "alpha",
			ManagedIPs:  []string{"10.0.0.1", "10.0.0.2"},
			PhysicalIP:  "203.0.113.7",
			LastOnline:  testNow.Add(-time.Minute),
			Online:      true,
			Description: "laptop",
		},
		{
			MemberID:   "f6e5d4c3b2",
			LastOnline: testNow.Add(-90 * time.Second),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMemberResult(t *testing.T) {
	r := ToMemberResult(sampleMembers()[1], testNow)

	assert.Equal(t, "f6e5d4c3b2", r.MemberID)
	assert.Equal(t, "1m 30s", r.LastSeen)
	assert.Equal(t, "2024-06-01T11:58:30Z", r.LastOnline)
	assert.NotNil(t, r.ManagedIPs)
}

func TestPrintMembers_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)

	require.NoError(t, p.PrintMembers(ToMemberListResult("nw1", sampleMembers(), testNow)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "AUTH"))
	assert.Contains(t, lines[1], "yes")
	assert.Contains(t, lines[1], "10.0.0.1,10.0.0.2")
	assert.Contains(t, lines[1], "ONLINE")
	assert.Contains(t, lines[2], "no")
	assert.Contains(t, lines[2], "1m 30s")
}

func TestPrintMembers_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	require.NoError(t, p.PrintMembers(ToMemberListResult("nw1", sampleMembers(), testNow)))

	var got MemberListResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "nw1", got.NetworkID)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, got.Members[0].ManagedIPs)
	assert.Equal(t, "ONLINE", got.Members[0].LastSeen)
	assert.Contains(t, buf.String(), `"member_id": "a1b2c3d4e5"`)
}

func TestPrintMembers_YAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatYAML)

	require.NoError(t, p.PrintMembers(ToMemberListResult("nw1", sampleMembers(), testNow)))

	var got MemberListResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, "alpha", got.Members[0].Name)
	assert.Contains(t, buf.String(), "network_id: nw1")
}

func TestPrintMember_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintMember(ToMemberResult(sampleMembers()[1], testNow)))

	out := buf.String()
	assert.Contains(t, out, "f6e5d4c3b2")
	assert.Contains(t, out, "Managed IPs:  -")
	assert.Contains(t, out, "Authorized:   false")
}

func TestPrintNetwork(t *testing.T) {
	n := ToNetworkResult(types.Network{ID: "nw1", Permissions: types.NetworkPermissions{Read: true, Authorize: true}})

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintNetwork(n))
	assert.Contains(t, buf.String(), "Modify:     false")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatJSON).PrintNetwork(n))
	assert.JSONEq(t, `{"network_id":"nw1","permissions":{"read":true,"authorize":true,"modify":false,"delete":false}}`, buf.String())
}

func TestPrintStatus(t *testing.T) {
	s := ToStatusResult(types.Status{
		CurrentUser: types.User{ID: "u1", Email: "ops@example.com"},
		Version:     "1.2.3",
		APIVersion:  4,
	})

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintStatus(s))
	assert.Contains(t, buf.String(), "u1 <ops@example.com>")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatJSON).PrintStatus(s))
	assert.JSONEq(t, `{"user":{"id":"u1","email":"ops@example.com"},"version":"1.2.3","api_version":4}`, buf.String())
}

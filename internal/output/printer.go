// Package output renders command results as tables for people or as JSON and
// YAML for scripts. The JSON and YAML shapes are the structs in schema.go.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sigs.k8s.io/yaml"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user supplied format. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
}

// Printer writes results in one format.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// PrintMembers writes a member list.
func (p *Printer) PrintMembers(result MemberListResult) error {
	if p.format != FormatTable {
		return p.encode(result)
	}
	tw := newTabWriter(p.w)
	fmt.Fprintln(tw, "AUTH\tID\tIPS\tNAME\tLAST-SEEN\tPHYSICAL-IP\tDESCRIPTION")
	for _, m := range result.Members {
		writeMemberRow(tw, m)
	}
	return tw.Flush()
}

// PrintMember writes a single member.
func (p *Printer) PrintMember(m MemberResult) error {
	if p.format != FormatTable {
		return p.encode(m)
	}
	tw := newTabWriter(p.w)
	fmt.Fprintf(tw, "ID:\t%s\n", m.MemberID)
	fmt.Fprintf(tw, "Name:\t%s\n", m.Name)
	fmt.Fprintf(tw, "Authorized:\t%t\n", m.Authorized)
	fmt.Fprintf(tw, "Managed IPs:\t%s\n", joinOrDash(m.ManagedIPs))
	fmt.Fprintf(tw, "Physical IP:\t%s\n", orDash(m.PhysicalIP))
	fmt.Fprintf(tw, "Last seen:\t%s\n", m.LastSeen)
	fmt.Fprintf(tw, "Last online:\t%s\n", m.LastOnline)
	fmt.Fprintf(tw, "Description:\t%s\n", m.Description)
	return tw.Flush()
}

// PrintNetwork writes a network and the caller's permissions.
func (p *Printer) PrintNetwork(n NetworkResult) error {
	if p.format != FormatTable {
		return p.encode(n)
	}
	tw := newTabWriter(p.w)
	fmt.Fprintf(tw, "Network:\t%s\n", n.NetworkID)
	fmt.Fprintf(tw, "Read:\t%t\n", n.Permissions.Read)
	fmt.Fprintf(tw, "Authorize:\t%t\n", n.Permissions.Authorize)
	fmt.Fprintf(tw, "Modify:\t%t\n", n.Permissions.Modify)
	fmt.Fprintf(tw, "Delete:\t%t\n", n.Permissions.Delete)
	return tw.Flush()
}

// PrintStatus writes the API status.
func (p *Printer) PrintStatus(s StatusResult) error {
	if p.format != FormatTable {
		return p.encode(s)
	}
	tw := newTabWriter(p.w)
	fmt.Fprintf(tw, "User:\t%s <%s>\n", s.User.ID, s.User.Email)
	fmt.Fprintf(tw, "Version:\t%s\n", s.Version)
	fmt.Fprintf(tw, "API version:\t%d\n", s.APIVersion)
	return tw.Flush()
}

func (p *Printer) encode(v interface{}) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		_, err = p.w.Write(b)
		return err
	}
	return fmt.Errorf("unsupported output format %q", p.format)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeMemberRow(w io.Writer, m MemberResult) {
	auth := "no"
	if m.Authorized {
		auth = "yes"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		auth, m.MemberID, joinOrDash(m.ManagedIPs), orDash(m.Name),
		m.LastSeen, orDash(m.PhysicalIP), m.Description)
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nerrad567/ouidb/internal/oui"
)

// viewKind tags the shape of a command result.
type viewKind int

const (
	kindScalar viewKind = iota
	kindList
	kindRecord
)

// field is one labelled value of a record view.
type field struct {
	Label string
	Value string
}

// view is a command result ready for printing. Lists may nest any kind.
type view struct {
	kind   viewKind
	text   string
	items  []view
	fields []field
}

func scalarView(text string) view {
	return view{kind: kindScalar, text: text}
}

func countView(n int) view {
	return scalarView(fmt.Sprintf("%d", n))
}

func stringsView(values []string) view {
	items := make([]view, len(values))
	for i, v := range values {
		items[i] = scalarView(v)
	}
	return view{kind: kindList, items: items}
}

func recordView(rec oui.Record) view {
	return view{kind: kindRecord, fields: []field{
		{Label: "Registry", Value: rec.Registry},
		{Label: "Assignment", Value: rec.Assignment},
		{Label: "Organization Name", Value: rec.OrganizationName},
		{Label: "Organization Address", Value: rec.OrganizationAddress},
	}}
}

func recordsView(records []oui.Record) view {
	items := make([]view, len(records))
	for i, rec := range records {
		items[i] = recordView(rec)
	}
	return view{kind: kindList, items: items}
}

func fieldsView(fields ...field) view {
	return view{kind: kindRecord, fields: fields}
}

// render writes v to w.
func render(w io.Writer, v view) error {
	return v.write(w, 0)
}

func (v view) write(w io.Writer, indent int) error {
	pad := strings.Repeat(" ", indent)

	switch v.kind {
	case kindScalar:
		_, err := fmt.Fprintf(w, "%s%s\n", pad, v.text)
		return err

	case kindList:
		for i, item := range v.items {
			if item.kind == kindScalar {
				if _, err := fmt.Fprintf(w, "%s- %s\n", pad, item.text); err != nil {
					return err
				}
				continue
			}
			// Structured items are separated by a blank line
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := item.write(w, indent+2); err != nil {
				return err
			}
		}
		return nil

	case kindRecord:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, f := range v.fields {
			if _, err := fmt.Fprintf(tw, "%s%s:\t%s\n", pad, f.Label, f.Value); err != nil {
				return err
			}
		}
		return tw.Flush()
	}

	return fmt.Errorf("unknown view kind %d", v.kind)
}

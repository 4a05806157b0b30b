package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/ouidb/internal/iot"
	"github.com/nerrad567/ouidb/internal/oui"
	"github.com/nerrad567/ouidb/internal/registry"
)

// fieldCmd builds a single-field lookup command such as "name".
func (a *app) fieldCmd(use, short string, get func(*registry.Engine, string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <mac>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mac := args[0]
			if !oui.ValidMAC(mac) {
				a.observer(cmd.Context()).ObserveLookup(registry.SourceCLI, false, false)
				return render(cmd.OutOrStdout(), scalarView(invalid))
			}

			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}

			value := get(engine, mac)
			a.observer(cmd.Context()).ObserveLookup(registry.SourceCLI, true, value != oui.Unknown)
			return render(cmd.OutOrStdout(), scalarView(value))
		},
	}
}

func (a *app) recordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <mac>",
		Short: "Print the full registry record for a MAC address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !oui.ValidMAC(args[0]) {
				a.observer(cmd.Context()).ObserveLookup(registry.SourceCLI, false, false)
				return render(cmd.OutOrStdout(), scalarView(invalid))
			}

			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}

			lookup := engine.LookupMAC(args[0])
			a.observer(cmd.Context()).ObserveLookup(registry.SourceCLI, lookup.Valid, lookup.Found)

			if !lookup.Found {
				return render(cmd.OutOrStdout(), scalarView(oui.Unknown))
			}
			return render(cmd.OutOrStdout(), recordView(*lookup.Record))
		},
	}
}

func (a *app) macsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "macs <organization>",
		Short: "List the OUIs registered to organizations matching a name",
		Long: `List the OUIs of every record whose organization name contains the given
text, ignoring case. The name may contain only letters, digits and spaces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !oui.ValidText(args[0]) {
				return render(cmd.OutOrStdout(), scalarView(invalid))
			}

			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), stringsView(engine.MACsForOrganization(args[0])))
		},
	}
}

func (a *app) orgsCmd() *cobra.Command {
	var assignment, reg string

	cmd := &cobra.Command{
		Use:   "orgs",
		Short: "List organization names, optionally by assignment or registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := oui.Filter{Assignment: assignment, Registry: reg}
			if err := oui.ValidateFilter(f); err != nil {
				return render(cmd.OutOrStdout(), scalarView(invalid))
			}

			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}

			var names []string
			switch {
			case assignment != "" && reg != "":
				names = engine.OrganizationsByAssignmentAndRegistry(assignment, reg)
			case assignment != "":
				names = engine.OrganizationsByAssignment(assignment)
			case reg != "":
				names = engine.OrganizationsByRegistry(reg)
			default:
				names = engine.Organizations()
			}
			return render(cmd.OutOrStdout(), stringsView(names))
		},
	}

	cmd.Flags().StringVar(&assignment, "assignment", "", "exact assignment (e.g. 00000C)")
	cmd.Flags().StringVar(&reg, "registry", "", "exact registry (e.g. MA-L)")
	return cmd
}

func (a *app) countCmd() *cobra.Command {
	var f oui.Filter

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count records, optionally matching a filter",
		Long: `Count registry records. With no flags every record is counted. The
--org flag matches a substring of the organization name, ignoring case;
--assignment and --registry match exactly. Flags combine with AND.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := oui.ValidateFilter(f); err != nil {
				return render(cmd.OutOrStdout(), scalarView(invalid))
			}

			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}

			if f.IsZero() {
				return render(cmd.OutOrStdout(), countView(engine.RecordCount()))
			}
			return render(cmd.OutOrStdout(), countView(engine.Count(f)))
		},
	}

	cmd.Flags().StringVar(&f.Organization, "org", "", "organization name substring")
	cmd.Flags().StringVar(&f.Assignment, "assignment", "", "exact assignment")
	cmd.Flags().StringVar(&f.Registry, "registry", "", "exact registry")

	cmd.AddCommand(&cobra.Command{
		Use:   "orgs",
		Short: "Count distinct organization names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), countView(engine.OrganizationCount()))
		},
	})

	return cmd
}

func (a *app) filterCmd() *cobra.Command {
	var f oui.Filter

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the records matching every given flag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := oui.ValidateFilter(f); err != nil {
				return render(cmd.OutOrStdout(), scalarView(invalid))
			}

			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), recordsView(engine.Filter(f)))
		},
	}

	cmd.Flags().StringVar(&f.Organization, "org", "", "organization name substring")
	cmd.Flags().StringVar(&f.Assignment, "assignment", "", "exact assignment")
	cmd.Flags().StringVar(&f.Registry, "registry", "", "exact registry")
	return cmd
}

func (a *app) iotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "iot <mac>",
		Short: "Report whether a MAC address belongs to a suspected IoT manufacturer",
		Long: `Classify the vendor of a MAC address. Prints "iot" or "not_iot". The IoT
manufacturer dumps in the cache directory are rewritten on every call.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mac := args[0]
			if !oui.ValidMAC(mac) {
				a.observer(cmd.Context()).ObserveLookup(registry.SourceCLI, false, false)
				return render(cmd.OutOrStdout(), scalarView(invalid))
			}

			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}

			verdict := a.classifier().IsIoTMAC(mac, engine)
			_, found := engine.OrganizationRecord(mac)
			a.observer(cmd.Context()).ObserveLookup(registry.SourceCLI, verdict.Known(), found)
			return render(cmd.OutOrStdout(), scalarView(verdict.String()))
		},
	}
}

func (a *app) iotManufacturersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "iot-manufacturers",
		Short: "List the organizations classified as IoT manufacturers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, _, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}

			set, err := a.classifier().Classify(engine.Mapping())
			if err != nil {
				// The set is still valid when only the dump failed
				a.log.Warn("persisting iot manufacturers failed", "error", err)
			}
			return render(cmd.OutOrStdout(), stringsView(set.Sorted()))
		},
	}
}

func (a *app) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download the registry now, ignoring the cache TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, meta, err := a.open(cmd.Context(), true)
			if err != nil {
				return err
			}
			if meta.FetchErr != nil {
				return fmt.Errorf("refreshing registry: %w", meta.FetchErr)
			}
			registry.ObserveLoad(a.observer(cmd.Context()), meta, 0)
			return render(cmd.OutOrStdout(), fieldsView(metadataFields(meta, a.cache())...))
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the cached registry and the last IoT classification",
		Long: `Describe how the registry was obtained. The IoT manufacturer count is read
from the dump written by the last "iot", "iot-manufacturers" or "serve" run;
info itself never classifies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, meta, err := a.open(cmd.Context(), false)
			if err != nil {
				return err
			}

			fields := metadataFields(meta, a.cache())
			fields = append(fields, classifierFields(a.classifier())...)
			return render(cmd.OutOrStdout(), fieldsView(fields...))
		},
	}
}

// metadataFields describes how the registry was obtained.
func metadataFields(meta registry.Metadata, cache registry.CacheState) []field {
	modified := "never"
	if !meta.SnapshotModified.IsZero() {
		modified = meta.SnapshotModified.Format(time.RFC3339)
	}

	fields := []field{
		{Label: "Source", Value: meta.SourceURL},
		{Label: "Snapshot", Value: cache.SnapshotPath()},
		{Label: "Status", Value: meta.Status.String()},
		{Label: "Modified", Value: modified},
		{Label: "Records", Value: fmt.Sprintf("%d", meta.Records)},
		{Label: "Organizations", Value: fmt.Sprintf("%d", meta.Organizations)},
		{Label: "Load time", Value: meta.LoadDuration.Round(time.Millisecond).String()},
	}
	if meta.FetchErr != nil {
		fields = append(fields, field{Label: "Fetch error", Value: meta.FetchError()})
	}
	return fields
}

// classifierFields reports the persisted IoT manufacturer set. A missing or
// unreadable dump is shown as "not classified".
func classifierFields(c *iot.Classifier) []field {
	manufacturers := "not classified"
	if set, err := c.Load(); err == nil {
		manufacturers = fmt.Sprintf("%d", set.Len())
	}
	return []field{
		{Label: "IoT dump", Value: c.Cache().BinaryPath()},
		{Label: "IoT manufacturers", Value: manufacturers},
	}
}


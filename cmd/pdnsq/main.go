package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dnsdb/pdnsq/pkg/backend"
	"github.com/dnsdb/pdnsq/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pdnsq",
	Short: "pdnsq - passive DNS query client",
	Long: `pdnsq queries passive DNS services (DNSDB API v1/v2, CIRCL pDNS)
for historical resource record observations.

Exactly one of --rrset, --name, --ip, --raw, or --batch selects what to
look up. Results stream to stdout; diagnostics go to stderr.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := gatherOptions(cmd)
		if err != nil {
			return err
		}
		initLogging(opts.debug)
		return run(opts)
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pdnsq version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	flags := rootCmd.Flags()
	flags.StringP("rrset", "r", "", "look up by owner name")
	flags.StringP("name", "n", "", "look up by rdata name")
	flags.StringP("ip", "i", "", "look up by rdata address or prefix")
	flags.StringP("raw", "R", "", "look up by raw rdata in hex")
	flags.StringP("type", "t", "", "comma-separated rrtype list (default any)")
	flags.StringP("bailiwick", "b", "", "restrict rrset results to a bailiwick")
	flags.StringP("after", "A", "", "only records last seen at or after this time")
	flags.StringP("before", "B", "", "only records first seen at or before this time")
	flags.BoolP("complete", "c", false, "require records to lie entirely inside the time fence")
	flags.Int64P("limit", "l", 0, "maximum rows to output (0 = service default)")
	flags.Int64P("offset", "O", 0, "rows to skip at the start of results")
	flags.BoolP("sort", "S", false, "sort and deduplicate results")
	flags.StringP("format", "p", "text", "output format: text, json, csv, or minimal")
	flags.BoolP("summarize", "s", false, "summarize instead of listing records")
	flags.StringP("batch", "f", "", "read queries from a batch file (- for stdin)")
	flags.BoolP("merge", "m", false, "run batch entries concurrently, merging output")
	flags.StringP("backend", "u", "", "backend system: dnsdb1, dnsdb2, or circl")
	flags.Bool("annotate", false, "annotate address records with origin AS (text format)")
	flags.String("config", "", "configuration file (default ~/.pdnsq.yaml)")
	flags.BoolP("debug", "d", false, "enable debug logging")

	infoFlags := infoCmd.Flags()
	infoFlags.StringP("backend", "u", "", "backend system: dnsdb1, dnsdb2, or circl")
	infoFlags.StringP("format", "p", "text", "output format: text or json")
	infoFlags.String("config", "", "configuration file (default ~/.pdnsq.yaml)")
	infoFlags.BoolP("debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show rate limit and quota state for the selected backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		debug, _ := flags.GetBool("debug")
		initLogging(debug)

		configPath, _ := flags.GetString("config")
		system, _ := flags.GetString("backend")
		format, _ := flags.GetString("format")
		return runInfo(configPath, system, format)
	},
}

func initLogging(debug bool) {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	log.Init(log.Config{Level: level, JSONOutput: false, Output: os.Stderr})
}

// modeFlags maps the lookup selection flags to their backend modes.
var modeFlags = []struct {
	name string
	mode backend.Mode
}{
	{"rrset", backend.RRSetName},
	{"name", backend.RdataName},
	{"ip", backend.RdataIP},
	{"raw", backend.RdataRaw},
}

type options struct {
	mode      backend.Mode
	thing     string
	rrtypes   string
	bailiwick string
	after     string
	before    string
	complete  bool
	limit     int64
	offset    int64
	sort      bool
	format    string
	summarize bool
	batchFile string
	merge     bool
	system    string
	annotate  bool
	config    string
	debug     bool
}

func gatherOptions(cmd *cobra.Command) (*options, error) {
	flags := cmd.Flags()
	opts := &options{}

	selected := 0
	for _, mf := range modeFlags {
		v, _ := flags.GetString(mf.name)
		if v == "" {
			continue
		}
		selected++
		opts.mode = mf.mode
		opts.thing = v
	}
	opts.batchFile, _ = flags.GetString("batch")
	if opts.batchFile != "" {
		selected++
	}
	if selected != 1 {
		return nil, fmt.Errorf("exactly one of --rrset, --name, --ip, --raw, or --batch is required")
	}

	// Address prefixes are given as a.b.c.d/len but travel as a.b.c.d,len.
	if opts.mode == backend.RdataIP {
		opts.thing = strings.ReplaceAll(opts.thing, "/", ",")
	}

	opts.rrtypes, _ = flags.GetString("type")
	opts.bailiwick, _ = flags.GetString("bailiwick")
	opts.after, _ = flags.GetString("after")
	opts.before, _ = flags.GetString("before")
	opts.complete, _ = flags.GetBool("complete")
	opts.limit, _ = flags.GetInt64("limit")
	opts.offset, _ = flags.GetInt64("offset")
	opts.sort, _ = flags.GetBool("sort")
	opts.format, _ = flags.GetString("format")
	opts.summarize, _ = flags.GetBool("summarize")
	opts.merge, _ = flags.GetBool("merge")
	opts.system, _ = flags.GetString("backend")
	opts.annotate, _ = flags.GetBool("annotate")
	opts.config, _ = flags.GetString("config")
	opts.debug, _ = flags.GetBool("debug")

	if opts.merge && opts.batchFile == "" {
		return nil, fmt.Errorf("--merge only applies to batch files")
	}
	return opts, nil
}

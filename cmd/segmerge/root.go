package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/segmerge"
	"github.com/hupe1980/segmerge/codec"
)

type app struct {
	cfg    Config
	codec  codec.Codec
	logger *segmerge.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:          "segmerge",
		Short:        "Inspect and convert segmentation mergelists",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")

			cfg, err := loadConfig(v, path)
			if err != nil {
				return err
			}

			cd, err := cfg.resolveCodec()
			if err != nil {
				return err
			}

			logger, err := cfg.Log.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.codec = cd
			a.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.config/segmerge/config.*)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text|json")
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	statsCmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Print object, subobject, todo and immutable counts",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runStats,
	}
	statsCmd.Flags().Bool("json", false, "Print machine-readable output")

	convertCmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a mergelist or annotation archive",
		Long: `Convert reads a mergelist (.txt, .lz4, .zst) or an annotation
archive (.zip) and writes it in the format implied by the output
extension.`,
		Args: cobra.ExactArgs(2),
		RunE: a.runConvert,
	}

	checkCmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Load a file and verify the store invariants",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runCheck,
	}

	rootCmd.AddCommand(statsCmd, convertCmd, checkCmd)

	return rootCmd
}

// Stats summarizes a loaded segmentation.
type Stats struct {
	Objects    int `json:"objects"`
	Subobjects int `json:"subobjects"`
	Todo       int `json:"todo"`
	Immutable  int `json:"immutable"`
}

func (a *app) open(path string) (*segmerge.Segmentation, error) {
	opts, err := a.cfg.Color.options(a.codec)
	if err != nil {
		return nil, err
	}
	opts = append(opts, segmerge.WithLogger(a.logger), segmerge.WithCodec(a.codec))

	seg := segmerge.New(opts...)
	if err := load(seg, path); err != nil {
		seg.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return seg, nil
}

func isArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

func load(seg *segmerge.Segmentation, path string) error {
	if !isArchive(path) {
		return seg.LoadMergelistFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	return seg.LoadAnnotation(f, fi.Size())
}

func save(seg *segmerge.Segmentation, path string) (err error) {
	if !isArchive(path) {
		return seg.SaveMergelistFile(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return seg.SaveAnnotation(f)
}

func (a *app) runStats(cmd *cobra.Command, args []string) error {
	seg, err := a.open(args[0])
	if err != nil {
		return err
	}
	defer seg.Close()

	var st Stats
	st.Objects = seg.Store().ObjectCount()
	st.Subobjects = seg.Store().SubobjectCount()
	st.Todo = seg.TodosLeft()
	for obj := range seg.Store().Objects() {
		if obj.Immutable() {
			st.Immutable++
		}
	}

	out := cmd.OutOrStdout()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		data, err := a.codec.Marshal(st)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	_, err = fmt.Fprintf(out, "objects:    %d\nsubobjects: %d\ntodo:       %d\nimmutable:  %d\n",
		st.Objects, st.Subobjects, st.Todo, st.Immutable)
	return err
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	seg, err := a.open(in)
	if err != nil {
		return err
	}
	defer seg.Close()

	if err := save(seg, out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d objects to %s\n", seg.Store().ObjectCount(), out)
	return err
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	seg, err := a.open(args[0])
	if err != nil {
		return err
	}
	defer seg.Close()

	if err := seg.CheckInvariants(); err != nil {
		return fmt.Errorf("check %s: %w", args[0], err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d objects, %d subobjects\n",
		seg.Store().ObjectCount(), seg.Store().SubobjectCount())
	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ff "github.com/reoring/formflow"
	"github.com/reoring/formflow/examples/profile"
	"github.com/reoring/formflow/internal/logging"
	"github.com/reoring/formflow/schemafile"
	"github.com/reoring/formflow/source"
	"github.com/reoring/formflow/submit"
	"github.com/reoring/formflow/upload"
)

var errRejected = errors.New("input rejected")

var rootCmd = &cobra.Command{
	Use:   "formflow",
	Short: "Validate, normalize and submit form payloads",
	Long: `formflow checks a JSON payload against a form schema.
- validate: report every field error at once, or print the normalized record.
- submit: validate, then upload file fields (dir or minio), then print the record.
- jsonschema: print the schema as JSON Schema.
Without --schema the built-in developer profile form is used.
File fields are written as {"$file": "path"}, relative to the payload file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(os.Stderr, viper.GetString("log-level"), viper.GetString("log-format"))
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("FORMFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("schema", "s", "", "schema YAML file (default: built-in profile form)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("schema", rootCmd.PersistentFlags().Lookup("schema"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func registerCommands() {
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(submitCmd())
	rootCmd.AddCommand(jsonschemaCmd())
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <payload.json|->",
		Short: "Validate a payload and print the normalized record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema()
			if err != nil {
				return err
			}
			raw, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			res := ff.Validate(s, raw)
			if tree, invalid := res.Invalid(); invalid {
				printIssues(cmd.OutOrStdout(), tree)
				return errRejected
			}
			rec, _ := res.Valid()
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
}

func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <payload.json|->",
		Short: "Validate a payload, upload its files and print the created record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema()
			if err != nil {
				return err
			}
			raw, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			up, err := newUploader(cmd.Context())
			if err != nil {
				return err
			}
			out := submit.Submit(cmd.Context(), s, raw, up, submit.WithLogger(slog.Default()))
			if tree, ok := out.ValidationFailed(); ok {
				printIssues(cmd.OutOrStdout(), tree)
				return errRejected
			}
			if se, ok := out.SideEffectFailed(); ok {
				return se
			}
			rec, _ := out.Created()
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().String("upload", "dir", "upload backend (dir, minio)")
	cmd.Flags().String("upload-dir", "uploads", "target directory for the dir backend")
	_ = viper.BindPFlag("upload", cmd.Flags().Lookup("upload"))
	_ = viper.BindPFlag("upload-dir", cmd.Flags().Lookup("upload-dir"))
	return cmd
}

func jsonschemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the schema as JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.JSONSchema())
		},
	}
}

func loadSchema() (*ff.Schema, error) {
	path := viper.GetString("schema")
	if path == "" {
		return profile.Schema(), nil
	}
	return schemafile.Load(path)
}

func readPayload(stdin io.Reader, arg string) (ff.RawInput, error) {
	if arg == "-" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return source.Reader(stdin, source.WithBaseDir(wd))
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}
	defer f.Close()
	return source.Reader(f, source.WithBaseDir(filepath.Dir(arg)))
}

func newUploader(ctx context.Context) (submit.Uploader, error) {
	switch backend := viper.GetString("upload"); backend {
	case "dir":
		return upload.NewDir(viper.GetString("upload-dir")), nil
	case "minio":
		cfg, err := upload.ConfigFromEnv()
		if err != nil {
			return nil, fmt.Errorf("minio config: %w", err)
		}
		client, err := upload.NewMinioClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		if err := upload.EnsureBucket(ctx, client, cfg); err != nil {
			return nil, err
		}
		return upload.NewMinio(client, cfg), nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", backend)
	}
}

func printIssues(w io.Writer, tree *ff.ErrorTree) {
	if viper.GetBool("json") {
		_ = printJSON(w, map[string]any{"errors": tree.Messages()})
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Field", "Kind", "Code", "Message"})
	for _, it := range tree.Issues() {
		tw.AppendRow(table.Row{it.Path, it.Category(), it.Code, it.Message})
	}
	tw.Render()
}

func printRecord(w io.Writer, rec *ff.Record) error {
	if viper.GetBool("json") {
		return printJSON(w, rec)
	}
	_, err := fmt.Fprintln(w, rec.Text())
	return err
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

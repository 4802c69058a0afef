package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/hourly/model"
	"github.com/viant/hourly/service/allocator"
	"github.com/viant/hourly/service/export"
	"gopkg.in/yaml.v3"
)

// Input represents a backlog and roster file
type Input struct {
	Developers model.Developers `yaml:"developers" json:"developers"`
	Demands    model.Demands    `yaml:"demands" json:"demands"`
}

type allocateOutput struct {
	Mode        model.Mode     `json:"mode"`
	Result      model.Result   `json:"result"`
	Unallocated []model.Demand `json:"unallocated"`
	ExportRef   string         `json:"exportRef,omitempty"`
}

func allocateCmd(opts *options) *cobra.Command {
	var (
		inputURL string
		modeName string
		doExport bool
	)
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Run one allocation pass over a backlog file and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := model.ParseMode(modeName)
			if err != nil {
				return err
			}
			input, err := loadInput(cmd, inputURL)
			if err != nil {
				return err
			}
			output, err := allocator.New().Allocate(cmd.Context(), &allocator.Input{Mode: mode, Backlog: input.Demands, Roster: input.Developers})
			if err != nil {
				return err
			}
			ret := &allocateOutput{Mode: output.Mode, Result: output.Result, Unallocated: output.Unallocated}
			if doExport {
				if ret.ExportRef, _, err = export.New(opts.config.Export).Export(cmd.Context(), output.Result); err != nil {
					return err
				}
			}
			opts.logger.Info("pass completed", "mode", mode, "allocated", len(output.Result.Allocated()), "unallocated", len(output.Unallocated))
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(ret)
		},
	}
	cmd.Flags().StringVarP(&inputURL, "input", "i", "", "backlog file location (yaml or json)")
	cmd.Flags().StringVarP(&modeName, "mode", "m", string(model.ModeInitial), "initial or reorder")
	cmd.Flags().BoolVar(&doExport, "export", false, "write the CSV export to export.url")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func loadInput(cmd *cobra.Command, location string) (*Input, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(cmd.Context(), url.Normalize(location, file.Scheme))
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", location, err)
	}
	input := &Input{}
	if err = yaml.Unmarshal(data, input); err != nil {
		return nil, fmt.Errorf("failed to decode input %s: %w", location, err)
	}
	return input, nil
}

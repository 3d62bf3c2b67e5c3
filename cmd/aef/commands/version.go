// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/aef/cmd/aef/cli"
	"github.com/bureau-foundation/aef/lib/codec"
	"github.com/bureau-foundation/aef/lib/version"
)

type versionParams struct {
	Format string `json:"format" flag:"format" desc:"output format: text, json, cbor" default:"text"`
}

func versionCommand(std streams) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
			switch params.Format {
			case formatText:
				fmt.Fprintf(std.out, "aef %s\n", version.Full())
				return nil
			case formatJSON:
				return cli.WriteJSON(std.out, version.Get())
			case formatCBOR:
				data, err := codec.Marshal(version.Get())
				if err != nil {
					return err
				}
				_, err = std.out.Write(data)
				return err
			default:
				return fmt.Errorf("unknown --format %q (want %s, %s, or %s)", params.Format, formatText, formatJSON, formatCBOR)
			}
		},
	}
}

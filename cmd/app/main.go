// Package main provides the entry point for the encryption toolkit CLI.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NotDonCitron/BlueBirdHub-sub005/cmd/app/commands"
)

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "Offline encryption toolkit for locally cached application data",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "generate-key-material",
				Usage: "Generate fresh 256-bit key material, hex-encoded",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateKeyMaterial(commands.DefaultIO())
				},
			},
			{
				Name:  "hash-password",
				Usage: "Hash a password with PBKDF2-SHA256 for credential storage",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Password to hash",
					},
					&cli.IntFlag{
						Name:    "min-length",
						Aliases: []string{"l"},
						Value:   8,
						Usage:   "Minimum accepted password length",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunHashPassword(
						commands.DefaultIO(),
						cmd.String("password"),
						int(cmd.Int("min-length")),
					)
				},
			},
			{
				Name:  "encrypt-file",
				Usage: "Encrypt a file with a password-derived master key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "in",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Path of the file to encrypt",
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "Path of the encrypted payload to write",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Password the master key is derived from",
					},
					&cli.StringFlag{
						Name:    "key-id",
						Aliases: []string{"k"},
						Value:   "",
						Usage:   "Key id to encrypt with (defaults to the master key)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEncryptFile(
						ctx,
						commands.DefaultIO(),
						cmd.String("in"),
						cmd.String("out"),
						cmd.String("password"),
						cmd.String("key-id"),
					)
				},
			},
			{
				Name:  "decrypt-file",
				Usage: "Decrypt a payload produced by encrypt-file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "in",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Path of the encrypted payload",
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "Path of the plaintext file to write",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Password the master key is derived from",
					},
					&cli.StringFlag{
						Name:    "key-id",
						Aliases: []string{"k"},
						Value:   "",
						Usage:   "Key id the payload was encrypted with (defaults to the master key)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDecryptFile(
						ctx,
						commands.DefaultIO(),
						cmd.String("in"),
						cmd.String("out"),
						cmd.String("password"),
						cmd.String("key-id"),
					)
				},
			},
			{
				Name:  "stats",
				Usage: "Print the encryption subsystem diagnostics snapshot",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunStats(ctx, commands.DefaultIO())
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/pharmainspect/client"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func serverFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Records API base URL",
		Value:   client.DefaultBaseURL,
		EnvVars: []string{"PHARMAINSPECT_SERVER"},
	}
}

func sessionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "session",
		Usage: "Path to the local session database directory",
		Value: "./pharmainspect_session",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "pharmainspect",
		Usage: "Pharmacy inspection records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the records REST API",
				Action: serveCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":5000",
					},
					&cli.StringFlag{
						Name:  "backup-dir",
						Usage: "Directory holding database backups (backups disabled when empty)",
						Value: "./backups",
					},
					&cli.IntFlag{
						Name:  "notify-workers",
						Usage: "Number of notification workers",
						Value: 2,
					},
					&cli.DurationFlag{
						Name:  "shutdown-timeout",
						Usage: "Grace period for in-flight requests on shutdown",
						Value: defaultShutdownTimeout,
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Search inspection records",
				Action: searchCommand,
				Flags: append([]cli.Flag{
					serverFlag(),
					sessionFlag(),
					&cli.BoolFlag{
						Name:  "mine",
						Usage: "Only show records inspected by the logged in user",
					},
				}, criteriaFlags()...),
			},
			{
				Name:  "records",
				Usage: "Manage inspection records",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List records, newest first",
						Action: listRecordsCommand,
						Flags: []cli.Flag{
							serverFlag(),
							&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number"},
							&cli.IntFlag{Name: "per-page", Value: 10, Usage: "Records per page"},
							&cli.StringFlag{Name: "text", Usage: "Free text filter"},
						},
					},
					{
						Name:      "get",
						Usage:     "Show one record",
						ArgsUsage: "<id>",
						Action:    getRecordCommand,
						Flags:     []cli.Flag{serverFlag()},
					},
					{
						Name:      "delete",
						Usage:     "Delete a record and its local attachment index",
						ArgsUsage: "<id>",
						Action:    deleteRecordCommand,
						Flags:     []cli.Flag{serverFlag(), sessionFlag()},
					},
				},
			},
			{
				Name:   "login",
				Usage:  "Log in as a local user",
				Action: loginCommand,
				Flags: []cli.Flag{
					sessionFlag(),
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
				},
			},
			{
				Name:   "logout",
				Usage:  "Log out the current user",
				Action: logoutCommand,
				Flags:  []cli.Flag{sessionFlag()},
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged in user",
				Action: whoamiCommand,
				Flags:  []cli.Flag{sessionFlag()},
			},
			{
				Name:  "users",
				Usage: "Manage local users",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List users",
						Action: listUsersCommand,
						Flags:  []cli.Flag{sessionFlag()},
					},
					{
						Name:   "add",
						Usage:  "Add a user",
						Action: addUserCommand,
						Flags: []cli.Flag{
							sessionFlag(),
							&cli.StringFlag{Name: "username", Required: true},
							&cli.StringFlag{Name: "password", Required: true},
							&cli.StringFlag{Name: "name", Usage: "Display name, matched against inspector names"},
							&cli.StringFlag{Name: "role", Value: string(defaultRole), Usage: "manager or inspector"},
							&cli.StringSliceFlag{Name: "workplace", Usage: "Administrative workplace (repeatable)"},
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete a user",
						ArgsUsage: "<id>",
						Action:    deleteUserCommand,
						Flags:     []cli.Flag{sessionFlag()},
					},
				},
			},
			{
				Name:      "import",
				Usage:     "Import inspection records from a JSON file",
				ArgsUsage: "<file>",
				Action:    importCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to store in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				},
			},
			{
				Name:  "backup",
				Usage: "Manage database backups",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Write a compressed snapshot of the database",
						Action: createBackupCommand,
						Flags:  backupFlags(),
					},
					{
						Name:   "list",
						Usage:  "List backups, newest first",
						Action: listBackupsCommand,
						Flags:  backupFlags(),
					},
					{
						Name:      "restore",
						Usage:     "Replace the database with a backup",
						ArgsUsage: "<filename>",
						Action:    restoreBackupCommand,
						Flags:     backupFlags(),
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

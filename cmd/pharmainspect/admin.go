package main

import (
	"fmt"
	"os"

	"github.com/poiesic/pharmainspect"
	"github.com/poiesic/pharmainspect/backup"
	"github.com/poiesic/pharmainspect/importer"
	"github.com/urfave/cli/v2"
)

func backupFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag(),
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Directory holding database backups",
			Value: "./backups",
		},
		&cli.IntFlag{
			Name:  "level",
			Usage: "zstd compression level (1-22)",
			Value: 3,
		},
	}
}

func importCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("import file is required")
	}

	cfg := &importer.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if cfg.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	db, err := pharmainspect.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	imp, err := db.NewImporter(cfg, importer.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", c.String("db"))
	fmt.Fprintf(c.App.ErrWriter, "Source: %s\n", path)
	fmt.Fprintln(c.App.ErrWriter)

	result, err := imp.Run(c.Context, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Imported %d records, skipped %d\n", result.Imported, result.Skipped)
	return nil
}

// withBackups opens the database and runs fn with its backup manager.
func withBackups(c *cli.Context, fn func(m *backup.Manager) error) error {
	db, err := pharmainspect.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	m, err := db.NewBackupManager(c.String("dir"), backup.WithCompressionLevel(c.Int("level")))
	if err != nil {
		return err
	}
	return fn(m)
}

func createBackupCommand(c *cli.Context) error {
	return withBackups(c, func(m *backup.Manager) error {
		info, err := m.Create(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Created %s (%d bytes)\n", info.Filename, info.Size)
		return nil
	})
}

func listBackupsCommand(c *cli.Context) error {
	return withBackups(c, func(m *backup.Manager) error {
		backups, err := m.List()
		if err != nil {
			return err
		}
		for _, info := range backups {
			fmt.Fprintf(c.App.Writer, "%s\t%d\t%s\n", info.Filename, info.Size, info.Created.Format("2006-01-02 15:04:05"))
		}
		return nil
	})
}

func restoreBackupCommand(c *cli.Context) error {
	filename := c.Args().First()
	if filename == "" {
		return fmt.Errorf("backup filename is required")
	}
	return withBackups(c, func(m *backup.Manager) error {
		result, err := m.Restore(c.Context, filename)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Restored %s, previous state saved as %s\n", result.Restored, result.SafetyBackup)
		return nil
	})
}

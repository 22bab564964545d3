package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// printReport writes the reports of the steps that ran.
func printReport(w io.Writer, report *driving.RunReport) {
	if report == nil {
		return
	}
	if c := report.Collect; c != nil {
		headingColor.Fprintf(w, "Collected %s\n", c.Category)
		fmt.Fprintf(w, "  Calls: %d (retries: %d)\n", c.Calls, c.Retries)
		fmt.Fprintf(w, "  Snapshot files: %d\n", c.Files)
		fmt.Fprintf(w, "  Documents: %d", c.Documents)
		if c.Total > 0 {
			fmt.Fprintf(w, " of %d", c.Total)
		}
		fmt.Fprintln(w)
	}
	if a := report.Archive; a != nil {
		headingColor.Fprintf(w, "Archive %s\n", a.Category)
		if a.ArchivePath != "" {
			fmt.Fprintf(w, "  Archive: %s (%s)\n", a.ArchivePath, humanize.Bytes(uint64(max(a.ArchiveSize, 0))))
		}
		if a.EncryptedPath != "" {
			fmt.Fprintf(w, "  Encrypted: %s (%s)\n", a.EncryptedPath, humanize.Bytes(uint64(max(a.EncryptedSize, 0))))
		}
	}
	if s := report.Sync; s != nil {
		printSync(w, s)
	}
}

func printSync(w io.Writer, s *domain.SyncReport) {
	headingColor.Fprintf(w, "Synced %s (%s)\n", s.Category, s.Path)
	fmt.Fprintf(w, "  Files: %d\n", s.Files)
	fmt.Fprintf(w, "  Loaded: %d\n", s.Loaded)
	okColor.Fprintf(w, "  Written: %d\n", s.Written)
	if s.Failed > 0 {
		warnColor.Fprintf(w, "  Failed: %d\n", s.Failed)
	}
	if len(s.Skipped) > 0 {
		warnColor.Fprintf(w, "  Skipped: %s\n", strings.Join(s.Skipped, ", "))
	}
}

// renderSnapshots renders snapshot files as a table.
func renderSnapshots(category domain.Category, infos []domain.SnapshotInfo) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Records", "Size", "Modified"})

	var records int
	var size int64
	for _, info := range infos {
		count := fmt.Sprintf("%d", info.Records)
		if !info.Readable {
			count = "unreadable"
		}
		tbl.AppendRow(table.Row{info.Name, count, humanize.Bytes(uint64(max(info.Size, 0))), humanize.Time(info.ModTime)})
		records += info.Records
		size += info.Size
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(infos)), records, humanize.Bytes(uint64(max(size, 0))), "",
	})

	return fmt.Sprintf("%s:\n%s\n", category, tbl.Render())
}

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/zerolayer/zerolayer/internal/store"
)

// renderEnvironmentTable writes the environment listing as an aligned
// table with filename, identifier, size and creation time columns.
func renderEnvironmentTable(w io.Writer, envs []store.Environment) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	heading := color.New(color.FgCyan, color.Bold)

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		heading.Sprint("FILENAME"),
		heading.Sprint("HASH"),
		heading.Sprint("SIZE"),
		heading.Sprint("CREATED"),
	)

	for _, env := range envs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			env.Name(),
			env.ID.String(),
			humanize.IBytes(uint64(env.Size)),
			env.ModTime.Format(time.DateTime),
		)
	}

	tw.Flush()
}

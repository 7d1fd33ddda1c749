package main

import (
	"context"
	"os"

	"github.com/phambaophuc/ptpimg-uploader/internal/output"
)

func main() {
	rootCmd := newRootCommand(output.SystemClipboard{})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

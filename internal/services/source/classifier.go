package source

import (
	"os"
	"strings"

	"github.com/phambaophuc/ptpimg-uploader/internal/models"
)

const urlPrefix = "http"

// Classify splits inputs into existing local paths and URLs, keeping the
// input order inside each group.
func Classify(inputs []string) (files, urls []string, err error) {
	for _, input := range inputs {
		switch {
		case exists(input):
			files = append(files, input)
		case strings.HasPrefix(input, urlPrefix):
			urls = append(urls, input)
		default:
			return nil, nil, &models.InvalidInputError{Input: input}
		}
	}
	return files, urls, nil
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

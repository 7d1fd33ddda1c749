package output

import (
	"fmt"
	"io"
	"strings"
)

const urlSeparator = "\n\n"

// BBCode wraps an image URL in [img] tags.
func BBCode(url string) string {
	return fmt.Sprintf("[img]%s[/img]", url)
}

// FormatURLs renders URLs separated by a blank line, optionally as BBCode.
func FormatURLs(urls []string, bbcode bool) string {
	lines := make([]string, len(urls))
	for i, url := range urls {
		if bbcode {
			lines[i] = BBCode(url)
		} else {
			lines[i] = url
		}
	}
	return strings.Join(lines, urlSeparator)
}

// LinkedThumbnail renders a thumbnail that links to its full-size image.
func LinkedThumbnail(full, thumb string) string {
	return fmt.Sprintf("[url=%s][img]%s[/img][/url]", full, thumb)
}

// ThumbnailRows pairs full[i] with thumbs[i] and lays the results out two per
// row. A trailing odd entry forms a row of its own. full may be longer than
// thumbs, as remote images get no thumbnail.
func ThumbnailRows(full, thumbs []string) ([]string, error) {
	if len(full) < len(thumbs) {
		return nil, fmt.Errorf("got %d thumbnails for %d images", len(thumbs), len(full))
	}

	rows := make([]string, 0, (len(thumbs)+1)/2)
	for i := 0; i < len(thumbs); i += 2 {
		row := LinkedThumbnail(full[i], thumbs[i])
		if i+1 < len(thumbs) {
			row += " " + LinkedThumbnail(full[i+1], thumbs[i+1])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteThumbnailReport prints the full-size list, the thumbnail list and the
// linked thumbnail rows.
func WriteThumbnailReport(w io.Writer, full, thumbs []string, bbcode bool) error {
	rows, err := ThumbnailRows(full, thumbs)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("----fullsize----\n")
	b.WriteString(FormatURLs(full, bbcode))
	b.WriteString("\n-----thumbs-----\n")
	b.WriteString(FormatURLs(thumbs, bbcode))
	b.WriteString("\n-----[url][/url]-----\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}

	_, err = io.WriteString(w, b.String())
	return err
}

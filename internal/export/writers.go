// Bundle writers. All three formats render the same snapshot: JSON is the
// canonical machine form, HTML is a dependency-free human rendering, and
// ZIP packs both plus a README and the media reference manifest.
package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/semilla-app/semilla/pkg/types"
)

// Export format names.
const (
	FormatJSON = "json"
	FormatHTML = "html"
	FormatZIP  = "zip"
)

// SuggestedFilename builds the conventional bundle filename for a format.
func SuggestedFilename(format string, at time.Time) string {
	return fmt.Sprintf("semilla-export-%s.%s", at.UTC().Format("2006-01-02"), format)
}

// countingWriter counts bytes on their way to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteJSON serializes the snapshot as pretty two-space-indented UTF-8
// JSON and returns the bytes written.
func WriteJSON(w io.Writer, data *types.FullExportData) (int64, error) {
	cw := &countingWriter{w: w}
	enc := json.NewEncoder(cw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return cw.n, fmt.Errorf("encoding bundle JSON: %w", err)
	}
	return cw.n, nil
}

// WriteHTML renders the snapshot as a single static HTML page with no
// script or network dependency: the bundle must stay readable when the
// application is long gone.
func WriteHTML(w io.Writer, data *types.FullExportData) (int64, error) {
	cw := &countingWriter{w: w}
	if err := bundleTemplate.Execute(cw, newBundlePage(data)); err != nil {
		return cw.n, fmt.Errorf("rendering bundle HTML: %w", err)
	}
	return cw.n, nil
}

// WriteZIP packs data.json, index.html, a generated README.txt and the
// media reference manifest into one archive. Media files themselves are
// referenced by URL, never embedded; that is a documented property of the
// format, not an omission.
func WriteZIP(w io.Writer, data *types.FullExportData) (int64, error) {
	cw := &countingWriter{w: w}
	archive := zip.NewWriter(cw)

	entries := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"data.json", func(w io.Writer) error {
			_, err := WriteJSON(w, data)
			return err
		}},
		{"index.html", func(w io.Writer) error {
			_, err := WriteHTML(w, data)
			return err
		}},
		{"README.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, readmeText(data))
			return err
		}},
		{"media/_referencias.txt", func(w io.Writer) error {
			_, err := io.WriteString(w, mediaManifest(data))
			return err
		}},
	}

	for _, entry := range entries {
		f, err := archive.Create(entry.name)
		if err != nil {
			return cw.n, fmt.Errorf("creating zip entry %s: %w", entry.name, err)
		}
		if err := entry.write(f); err != nil {
			return cw.n, fmt.Errorf("writing zip entry %s: %w", entry.name, err)
		}
	}

	if err := archive.Close(); err != nil {
		return cw.n, fmt.Errorf("closing zip: %w", err)
	}
	return cw.n, nil
}

// readmeText generates the bundle's README.
func readmeText(data *types.FullExportData) string {
	var b strings.Builder
	b.WriteString("Semilla - copia portable de la historia de inversion\n")
	b.WriteString("====================================================\n\n")
	fmt.Fprintf(&b, "Exportado: %s\n", data.ExportDate.Format(time.RFC3339))
	fmt.Fprintf(&b, "Version del formato: %s (app %s)\n\n", data.ExportVersion, data.AppVersion)
	b.WriteString("Contenido:\n")
	b.WriteString("  data.json               todos los datos, legibles por cualquier programa\n")
	b.WriteString("  index.html              la misma historia, abrible en cualquier navegador\n")
	b.WriteString("  media/_referencias.txt  enlaces a fotos y videos (no incluidos en el archivo)\n\n")
	b.WriteString("Integridad: cada capa lleva una suma SHA-256 en data.json (clave\n")
	b.WriteString("\"checksums\"). Si la verificacion falla, el archivo pudo haberse\n")
	b.WriteString("corrompido o modificado.\n\n")
	fmt.Fprintf(&b, "Transacciones: %d | Capitulos: %d | Narrativas anuales: %d\n",
		len(data.Financial.Transactions),
		len(data.Emotional.Chapters),
		len(data.Emotional.YearlyNarratives))
	return b.String()
}

// mediaManifest lists every referenced media URL, one per line. The bundle
// references media, it does not embed it.
func mediaManifest(data *types.FullExportData) string {
	var b strings.Builder
	b.WriteString("Referencias de medios (no incluidos en el archivo):\n\n")
	count := 0
	seen := make(map[string]bool)
	add := func(context, url string) {
		if url == "" || seen[url] {
			return
		}
		seen[url] = true
		count++
		fmt.Fprintf(&b, "%s: %s\n", context, url)
	}

	for _, meta := range data.Metadata.TransactionMetadata {
		for _, v := range meta.Versions {
			add("metadata "+meta.ID, v.Fields.PhotoURL)
		}
	}
	for _, ch := range data.Emotional.Chapters {
		for _, v := range ch.Versions {
			for _, url := range v.Fields.MediaURLs {
				add("capitulo "+ch.ID, url)
			}
		}
	}

	if count == 0 {
		b.WriteString("(ninguna)\n")
	}
	return b.String()
}

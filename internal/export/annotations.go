package export

import (
	"encoding/json"
	"io"
	"os"

	"nibra-chart/internal/annotation"

	"github.com/pkg/errors"
)

// Document is the on-disk form of an annotation list.
type Document struct {
	Version     int                     `json:"version"`
	Symbol      string                  `json:"symbol,omitempty"`
	Timeframe   string                  `json:"timeframe,omitempty"`
	Annotations []annotation.Annotation `json:"annotations"`
}

// DocumentVersion is written into every document.
const DocumentVersion = 1

// WriteAnnotations encodes doc as indented JSON.
func WriteAnnotations(w io.Writer, doc Document) error {
	doc.Version = DocumentVersion
	if doc.Annotations == nil {
		doc.Annotations = []annotation.Annotation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "encode annotations")
}

// ReadAnnotations decodes a document written by WriteAnnotations.
func ReadAnnotations(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, errors.Wrap(err, "decode annotations")
	}
	if doc.Version > DocumentVersion {
		return Document{}, errors.Errorf("unsupported annotations version %d", doc.Version)
	}
	return doc, nil
}

// SaveAnnotations writes doc to path.
func SaveAnnotations(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create annotations file")
	}
	if err := WriteAnnotations(f, doc); err != nil {
		f.Close()
		return err
	}
	log.Infof("wrote %d annotations to %s", len(doc.Annotations), path)
	return errors.Wrap(f.Close(), "close annotations file")
}

// LoadAnnotations reads a document from path.
func LoadAnnotations(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, errors.Wrap(err, "open annotations file")
	}
	defer f.Close()
	return ReadAnnotations(f)
}

// Package output prints crawl results as plain lines, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/constant"
	"gopkg.in/yaml.v3"
)

// Result is the document written by the json and yaml formats.
type Result struct {
	// Site is the crawled WordPress address.
	Site string `json:"site" yaml:"site"`
	// Mode is fast or slow.
	Mode string `json:"mode" yaml:"mode"`
	// Count equals len(URLs).
	Count int `json:"count" yaml:"count"`
	// URLs are the confirmed video addresses, sorted.
	URLs []string `json:"urls" yaml:"urls"`
	// FinishedAt is when the crawl ended.
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// Writer receives URLs as they are confirmed and the summary at the end.
type Writer interface {
	URL(url string) error
	Finish(result Result) error
}

// Formats lists accepted values of --output.
func Formats() []string {
	return []string{constant.FormatPlain, constant.FormatJSON, constant.FormatYAML}
}

// New returns a writer for format.
func New(format string, w io.Writer) (Writer, error) {
	switch format {
	case constant.FormatPlain, "":
		return &plain{w: w}, nil
	case constant.FormatJSON:
		return &document{w: w, encode: encodeJSON}, nil
	case constant.FormatYAML:
		return &document{w: w, encode: encodeYAML}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q, expected one of %v", api.ErrConfiguration, format, Formats())
	}
}

// plain streams one URL per line as soon as it is known.
type plain struct {
	w io.Writer
}

func (p *plain) URL(url string) error {
	_, err := fmt.Fprintln(p.w, url)
	return err
}

func (p *plain) Finish(Result) error {
	return nil
}

// document buffers nothing itself; the result set already holds every URL.
type document struct {
	w      io.Writer
	encode func(io.Writer, Result) error
}

func (d *document) URL(string) error {
	return nil
}

func (d *document) Finish(result Result) error {
	if result.URLs == nil {
		result.URLs = []string{}
	}
	result.Count = len(result.URLs)
	return d.encode(d.w, result)
}

func encodeJSON(w io.Writer, result Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func encodeYAML(w io.Writer, result Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return err
	}
	return enc.Close()
}

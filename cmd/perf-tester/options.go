package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/go-faster/errors"

	"perf-tester/internal/application/orchestrator"
	"perf-tester/internal/domain"
)

// fileConfig is the JSON document accepted by --config. Explicitly set flags
// take precedence over its values.
type fileConfig struct {
	Label    string     `json:"label"`
	URLs     stringList `json:"urls"`
	File     string     `json:"file"`
	Repeat   int        `json:"repeat"`
	Headful  bool       `json:"headful"`
	Report   bool       `json:"report"`
	Labels   stringList `json:"labels"`
	Baseline string     `json:"baseline"`
	OutDir   string     `json:"outDir"`
	HTML     *bool      `json:"html"`
}

// stringList accepts either a comma separated string or an array of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var csv string
	if err := json.Unmarshal(data, &csv); err == nil {
		*l = domain.ParseList(csv)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.New("expected a comma separated string or an array of strings")
	}
	*l = domain.Normalize(items)
	return nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Errorf("config file not found: %s", path)
		}
		return cfg, errors.Wrap(err, "read config file")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config file %s", path)
	}
	return cfg, nil
}

// readURLFile returns the non-empty lines of path.
func readURLFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("file not found: %s", path)
		}
		return nil, errors.Wrap(err, "read url file")
	}
	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	return urls, nil
}

type changedFunc func(name string) bool

type runOptions struct {
	Label   string
	URLs    string
	File    string
	Repeat  int
	Headful bool
	Report  bool
	Config  string
}

type runPlan struct {
	Batch  orchestrator.Batch
	Report bool
}

func (o runOptions) resolve(changed changedFunc) (runPlan, error) {
	cfg, err := loadFileConfig(o.Config)
	if err != nil {
		return runPlan{}, err
	}

	label := cfg.Label
	if changed("label") || label == "" {
		label = strings.TrimSpace(o.Label)
	}
	if label == "" {
		return runPlan{}, errors.New(`label is required: provide --label or include "label" in the config file`)
	}

	urls := []string(cfg.URLs)
	if changed("urls") {
		urls = domain.ParseList(o.URLs)
	}
	file := cfg.File
	if changed("file") || file == "" {
		file = o.File
	}
	if file != "" {
		fromFile, err := readURLFile(file)
		if err != nil {
			return runPlan{}, err
		}
		urls = append(urls, fromFile...)
	}
	urls = domain.Normalize(urls)
	if len(urls) == 0 {
		return runPlan{}, errors.Wrap(domain.ErrNoURLs, `use --urls, --file, or include "urls" in the config file`)
	}

	repeat := o.Repeat
	if !changed("repeat") && cfg.Repeat > 0 {
		repeat = cfg.Repeat
	}
	if repeat < 1 {
		repeat = 1
	}

	headful := o.Headful
	if !changed("headful") {
		headful = headful || cfg.Headful
	}
	report := o.Report
	if !changed("report") {
		report = report || cfg.Report
	}

	return runPlan{
		Batch: orchestrator.Batch{
			Label:   label,
			URLs:    urls,
			Repeat:  repeat,
			Headful: headful,
		},
		Report: report,
	}, nil
}

type reportOptions struct {
	Labels   string
	Baseline string
	Config   string
	OutDir   string
	NoHTML   bool
}

// reportPlan is the resolved input of report and aggregate. An empty OutDir
// falls back to REPORT_DIR.
type reportPlan struct {
	Labels   []string
	Baseline string
	OutDir   string
	HTML     bool
}

func (o reportOptions) resolve(changed changedFunc) (reportPlan, error) {
	cfg, err := loadFileConfig(o.Config)
	if err != nil {
		return reportPlan{}, err
	}

	labels := []string(cfg.Labels)
	if changed("labels") || len(labels) == 0 {
		labels = domain.ParseList(o.Labels)
	}
	if len(labels) == 0 {
		return reportPlan{}, errors.Wrap(domain.ErrNoLabels, `use --labels or include "labels" in the config file`)
	}

	baseline := cfg.Baseline
	if changed("baseline") || baseline == "" {
		baseline = strings.TrimSpace(o.Baseline)
	}

	outDir := cfg.OutDir
	if changed("out-dir") || outDir == "" {
		outDir = o.OutDir
	}

	html := !o.NoHTML
	if !changed("no-html") && cfg.HTML != nil {
		html = *cfg.HTML
	}

	return reportPlan{
		Labels:   labels,
		Baseline: baseline,
		OutDir:   outDir,
		HTML:     html,
	}, nil
}

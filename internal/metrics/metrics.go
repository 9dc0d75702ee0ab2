// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics defines the Prometheus collectors for dictionary builds and
// lookups.
//
// jdict is a short lived command so metrics are not scraped. They are written
// in the node_exporter textfile format when the command exits.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for jdict.
type Metrics struct {
	Registry *prometheus.Registry

	BuildDuration  *prometheus.HistogramVec
	BuildTerms     *prometheus.GaugeVec
	BuildFiles     *prometheus.CounterVec
	SkippedEntries *prometheus.CounterVec
	BuildErrors    *prometheus.CounterVec
	Lookups        *prometheus.CounterVec
}

// New creates all collectors and registers them with a new registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		BuildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jdict_build_duration_seconds",
				Help:    "Time taken to build a dictionary in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"dict"},
		),
		BuildTerms: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "jdict_build_terms",
				Help: "Number of unique terms in a built dictionary.",
			},
			[]string{"dict"},
		),
		BuildFiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jdict_build_files_total",
				Help: "Total term bank files read.",
			},
			[]string{"dict"},
		),
		SkippedEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jdict_skipped_entries_total",
				Help: "Total entries skipped for missing a term or definitions.",
			},
			[]string{"dict"},
		),
		BuildErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jdict_build_errors_total",
				Help: "Total failed dictionary builds.",
			},
			[]string{"dict"},
		),
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jdict_lookups_total",
				Help: "Total lookups by result (hit, miss).",
			},
			[]string{"dict", "result"},
		),
	}

	m.Registry.MustRegister(
		m.BuildDuration,
		m.BuildTerms,
		m.BuildFiles,
		m.SkippedEntries,
		m.BuildErrors,
		m.Lookups,
	)
	return m
}

// ObserveBuild records a successful build of dict.
func (m *Metrics) ObserveBuild(dict string, files, terms, skipped int, d time.Duration) {
	m.BuildDuration.WithLabelValues(dict).Observe(d.Seconds())
	m.BuildTerms.WithLabelValues(dict).Set(float64(terms))
	m.BuildFiles.WithLabelValues(dict).Add(float64(files))
	m.SkippedEntries.WithLabelValues(dict).Add(float64(skipped))
}

// BuildFailed records a failed build of dict.
func (m *Metrics) BuildFailed(dict string) {
	m.BuildErrors.WithLabelValues(dict).Inc()
}

// ObserveLookup records a lookup in dict.
func (m *Metrics) ObserveLookup(dict string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.Lookups.WithLabelValues(dict, result).Inc()
}

// WriteFile writes all metrics to path in the textfile collector format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

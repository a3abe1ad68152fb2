// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	celsius    *prometheus.GaugeVec
	rawAverage *prometheus.GaugeVec
	fault      *prometheus.GaugeVec
	batches    *prometheus.CounterVec
	readErrors *prometheus.CounterVec
}

func newMetrics(namespace string, reg prometheus.Registerer) (*metrics, error) {
	labels := []string{"probe"}

	m := metrics{
		celsius: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "celsius",
			Help:      "Filtered probe temperature (C).",
		}, labels),
		rawAverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "raw_average",
			Help:      "Trimmed average of the raw ADC samples.",
		}, labels),
		fault: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "fault",
			Help:      "Probe fault state (ok=0, open or shorted=1).",
		}, labels),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "batches_total",
			Help:      "Number of filtered temperatures computed.",
		}, labels),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "probe",
			Name:      "read_errors_total",
			Help:      "Number of failed raw reads.",
		}, labels),
	}

	for _, c := range []prometheus.Collector{m.celsius, m.rawAverage, m.fault, m.batches, m.readErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &m, nil
}

// Copyright (c) 2014-2026 The Myriadcoin developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	g.Write(&m)
	return m.GetGauge().GetValue()
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	c.Write(&m)
	return m.GetCounter().GetValue()
}

func TestSetTipHeight(t *testing.T) {
	SetTipHeight(0)
	SetTipHeight(42)
	if v := gaugeValue(tipHeight); v != 42 {
		t.Fatalf("tipHeight = %v, want 42", v)
	}
}

func TestObserveVerify(t *testing.T) {
	before := counterValue(verifyTotal.WithLabelValues("success"))
	ObserveVerify("success")
	after := counterValue(verifyTotal.WithLabelValues("success"))
	if after != before+1 {
		t.Fatalf("verifyTotal[success] = %v, want %v", after, before+1)
	}
}

func TestObserveReorg(t *testing.T) {
	before := counterValue(reorgTotal)
	ObserveReorg()
	if after := counterValue(reorgTotal); after != before+1 {
		t.Fatalf("reorgTotal = %v, want %v", after, before+1)
	}
}

func TestObserveRetargetBootstrap(t *testing.T) {
	before := counterValue(retargetBootstrapTotal)
	ObserveRetargetBootstrap()
	if after := counterValue(retargetBootstrapTotal); after != before+1 {
		t.Fatalf("retargetBootstrapTotal = %v, want %v", after, before+1)
	}
}

package main

import (
	"fmt"
	"time"

	pluginrpc "selflab/internal/modules/plugin/adapter/out/rpc"
)

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func complianceEffect(logs []pluginrpc.DailyLog) *pluginrpc.AnalyzeResponse {
	var moodYes, moodNo, energyYes, energyNo mean
	for _, l := range logs {
		if l.Compliant == nil {
			continue
		}
		if *l.Compliant {
			moodYes.add(float64(l.Mood))
			energyYes.add(float64(l.Energy))
		} else {
			moodNo.add(float64(l.Mood))
			energyNo.add(float64(l.Energy))
		}
	}
	if moodYes.n == 0 || moodNo.n == 0 {
		return &pluginrpc.AnalyzeResponse{Summary: "not enough compliance data: need both compliant and non-compliant days"}
	}
	moodDelta := moodYes.value() - moodNo.value()
	energyDelta := energyYes.value() - energyNo.value()
	return &pluginrpc.AnalyzeResponse{
		Summary: fmt.Sprintf("mood %+.1f and energy %+.1f on compliant days (%d vs %d days)", moodDelta, energyDelta, moodYes.n, moodNo.n),
		Insights: []pluginrpc.Insight{
			{Title: "Mood when compliant", Detail: fmt.Sprintf("%d days", moodYes.n), Value: moodYes.value()},
			{Title: "Mood otherwise", Detail: fmt.Sprintf("%d days", moodNo.n), Value: moodNo.value()},
			{Title: "Energy when compliant", Detail: fmt.Sprintf("%d days", energyYes.n), Value: energyYes.value()},
			{Title: "Energy otherwise", Detail: fmt.Sprintf("%d days", energyNo.n), Value: energyNo.value()},
		},
	}
}

func bestDay(logs []pluginrpc.DailyLog) (*pluginrpc.AnalyzeResponse, error) {
	var byDay [7]mean
	for _, l := range logs {
		if l.Mood <= 0 {
			continue
		}
		day, err := time.Parse("2006-01-02", l.Date)
		if err != nil {
			return nil, fmt.Errorf("log date %q: %w", l.Date, err)
		}
		byDay[day.Weekday()].add(float64(l.Mood))
	}
	best := -1
	insights := []pluginrpc.Insight{}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		m := byDay[wd]
		if m.n == 0 {
			continue
		}
		insights = append(insights, pluginrpc.Insight{Title: wd.String(), Detail: fmt.Sprintf("%d days", m.n), Value: m.value()})
		if best < 0 || m.value() > byDay[best].value() {
			best = int(wd)
		}
	}
	if best < 0 {
		return &pluginrpc.AnalyzeResponse{Summary: "no mood readings yet"}, nil
	}
	return &pluginrpc.AnalyzeResponse{
		Summary:  fmt.Sprintf("best day is %s with mean mood %.1f", time.Weekday(best), byDay[best].value()),
		Insights: insights,
	}, nil
}

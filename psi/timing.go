//
// Copyright (c) 2020-2025 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"fmt"
	"io"
	"time"

	"github.com/markkurossi/tabulate"
)

// FileSize specifies a byte count.
type FileSize uint64

func (s FileSize) String() string {
	if s > 1000*1000*1000*1000 {
		return fmt.Sprintf("%dTB", s/(1000*1000*1000*1000))
	} else if s > 1000*1000*1000 {
		return fmt.Sprintf("%dGB", s/(1000*1000*1000))
	} else if s > 1000*1000 {
		return fmt.Sprintf("%dMB", s/(1000*1000))
	} else if s > 1000 {
		return fmt.Sprintf("%dkB", s/1000)
	} else {
		return fmt.Sprintf("%dB", s)
	}
}

// Timing records per-stage timing and bandwidth samples and renders
// a profiling report. Timing is not safe for concurrent use.
type Timing struct {
	Start   time.Time
	Samples []*Sample
}

// NewTiming creates a new Timing instance.
func NewTiming() *Timing {
	return &Timing{
		Start: time.Now(),
	}
}

// Sample contains information about one stage.
type Sample struct {
	Label string
	Start time.Time
	End   time.Time
	Sent  Sender
	Size  FileSize
}

// Sender identifies the party that sent a message.
type Sender int

// Message senders.
const (
	SenderNone Sender = iota
	SenderA
	SenderB
)

// Sample adds a stage sample. The msg is the message the stage
// produced, or nil for the terminal stage.
func (t *Timing) Sample(label string, msg Message) *Sample {
	start := t.Start
	if len(t.Samples) > 0 {
		start = t.Samples[len(t.Samples)-1].End
	}
	sample := &Sample{
		Label: label,
		Start: start,
		End:   time.Now(),
	}
	if msg != nil {
		sample.Size = FileSize(msg.Size())
		switch msg.Type() {
		case TypeA1, TypeA2:
			sample.Sent = SenderA
		default:
			sample.Sent = SenderB
		}
	}
	t.Samples = append(t.Samples, sample)
	return sample
}

// Sent returns the number of bytes sent by the party.
func (t *Timing) Sent(sender Sender) FileSize {
	var result FileSize
	for _, sample := range t.Samples {
		if sample.Sent == sender {
			result += sample.Size
		}
	}
	return result
}

// Print prints the profiling report to the writer.
func (t *Timing) Print(w io.Writer) {
	if len(t.Samples) == 0 {
		return
	}

	sentA := t.Sent(SenderA)
	sentB := t.Sent(SenderB)
	total := sentA + sentB

	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Stage").SetAlign(tabulate.ML)
	tab.Header("Time").SetAlign(tabulate.MR)
	tab.Header("%").SetAlign(tabulate.MR)
	tab.Header("Xfer").SetAlign(tabulate.MR)

	elapsed := t.Samples[len(t.Samples)-1].End.Sub(t.Start)
	for _, sample := range t.Samples {
		row := tab.Row()
		row.Column(sample.Label)

		duration := sample.End.Sub(sample.Start)
		row.Column(duration.String())
		row.Column(fmt.Sprintf("%.2f%%",
			float64(duration)/float64(elapsed)*100))
		if sample.Sent != SenderNone {
			row.Column(sample.Size.String())
		} else {
			row.Column("")
		}
	}
	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column(elapsed.String()).SetFormat(tabulate.FmtBold)
	row.Column("").SetFormat(tabulate.FmtBold)
	row.Column(total.String()).SetFormat(tabulate.FmtBold)

	if total > 0 {
		row = tab.Row()
		row.Column("├╴A→B").SetFormat(tabulate.FmtItalic)
		row.Column("")
		row.Column(
			fmt.Sprintf("%.2f%%", float64(sentA)/float64(total)*100)).
			SetFormat(tabulate.FmtItalic)
		row.Column(sentA.String()).SetFormat(tabulate.FmtItalic)

		row = tab.Row()
		row.Column("╰╴B→A").SetFormat(tabulate.FmtItalic)
		row.Column("")
		row.Column(
			fmt.Sprintf("%.2f%%", float64(sentB)/float64(total)*100)).
			SetFormat(tabulate.FmtItalic)
		row.Column(sentB.String()).SetFormat(tabulate.FmtItalic)
	}

	tab.Print(w)
}

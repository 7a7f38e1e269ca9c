// Parses the keyword/value workload description into one TimelineEntry per process.

package sim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

// ErrNoWorkload is returned when the input contains no NEW declaration.
var ErrNoWorkload = errors.New("no workload")

// Workload keywords.
const (
	KeywordNew   = "NEW"
	KeywordStart = "START"
	KeywordCPU   = "CPU"
	KeywordInput = "INPUT"
	KeywordIO    = "IO"
	keywordIOAlt = "I/O"
)

var busyKeywords = map[string]PhaseKind{
	KeywordCPU:   PhaseCPUBusy,
	KeywordInput: PhaseInputBusy,
	KeywordIO:    PhaseIOBusy,
	keywordIOAlt: PhaseIOBusy,
}

// ParseWorkload reads whitespace-separated `keyword value` pairs until EOF.
// Each NEW opens an entry; START, CPU, INPUT and IO append phases to it.
// The input is assumed well-formed: only values that are not integers and
// phases declared outside a started process are reported.
func ParseWorkload(r io.Reader) ([]*TimelineEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var entries []*TimelineEntry
	var current *TimelineEntry

	for scanner.Scan() {
		keyword := scanner.Text()
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading workload: %w", err)
			}
			return nil, fmt.Errorf("keyword %s has no value", keyword)
		}
		value, err := strconv.ParseInt(scanner.Text(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing value for %s: %w", keyword, err)
		}

		switch keyword {
		case KeywordNew:
			if current != nil {
				current.TotalDuration = current.Chain.Total()
			}
			current = &TimelineEntry{PID: int(value)}
			entries = append(entries, current)
		case KeywordStart:
			if current == nil {
				return nil, fmt.Errorf("%s %d declared before %s", keyword, value, KeywordNew)
			}
			current.Chain = append(current.Chain, Phase{Kind: PhaseStart, Duration: value})
			current.NextUpdateTime = value
		default:
			kind, known := busyKeywords[keyword]
			if !known {
				logrus.Warnf("Skipping unrecognized workload keyword %q", keyword)
				continue
			}
			if current == nil || len(current.Chain) == 0 {
				return nil, fmt.Errorf("%s %d declared before %s", keyword, value, KeywordStart)
			}
			current.Chain = append(current.Chain, Phase{Kind: kind, Duration: value})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading workload: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrNoWorkload
	}
	current.TotalDuration = current.Chain.Total()

	for _, e := range entries {
		if len(e.Chain) == 0 {
			return nil, fmt.Errorf("process %d has no %s phase", e.PID, KeywordStart)
		}
	}
	return entries, nil
}

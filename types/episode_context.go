package types

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/zeu5/mixing-rl/util"
)

// EpisodeContext carries what an episode uses and what it reports back
type EpisodeContext struct {
	Context context.Context
	Cancel  context.CancelFunc

	Episode        int
	ExperimentName string
	Report         *EpisodeReport
	Trace          *Trace

	Timesteps int     // valid transitions executed
	Resets    int     // discarded environments before a valid initial state
	Return    float64 // total or maximum reward, depending on the agent return mode
	Err       error

	OutOfSpaceBounds bool // ended early on a state outside the state space
	HorizonEnd       bool // ran for the whole horizon
	RunDuration      time.Duration

	ToPrintReport     bool
	reportPrintConfig *ReportsPrintConfig
	reportSavePath    string
}

func NewEpisodeContext(ctx context.Context, episode int, experimentName string, reportConfig *ReportsPrintConfig, reportSavePath string) *EpisodeContext {
	eCtx, cancel := context.WithCancel(ctx)
	if reportConfig == nil {
		reportConfig = RepConfigOff()
	}
	return &EpisodeContext{
		Context:           eCtx,
		Cancel:            cancel,
		Episode:           episode,
		ExperimentName:    experimentName,
		Report:            NewEpisodeReport(episode, experimentName),
		Trace:             NewTrace(),
		reportPrintConfig: reportConfig,
		reportSavePath:    reportSavePath,
	}
}

func (e *EpisodeContext) SetError(err error) {
	e.Err = err
	e.Report.AddLog(err.Error(), "error")
}

func (e *EpisodeContext) SetToPrintReport(b bool) {
	e.ToPrintReport = b
}

// RecordReport writes the report to <save>/epReports according to the print configuration
func (e *EpisodeContext) RecordReport() error {
	cfg := e.reportPrintConfig
	if e.reportSavePath == "" || (!cfg.PrintStd && !cfg.PrintValues && !cfg.PrintTimeline) {
		return nil
	}
	content := make([]string, 0)
	content = append(content, fmt.Sprintf("Experiment: %s, Episode: %d, Timesteps: %d, Return: %.2f", e.ExperimentName, e.Episode, e.Timesteps, e.Return))
	if cfg.PrintStd {
		content = append(content, e.Report.StringPerType())
	}
	if cfg.PrintValues {
		content = append(content, e.Report.StringPerTypeValues())
	}
	if cfg.PrintTimeline {
		content = append(content, e.Report.StringTimeline())
	}
	filePath := path.Join(e.reportSavePath, "epReports", e.ExperimentName+"_ep"+strconv.Itoa(e.Episode)+".txt")
	return util.WriteToFile(filePath, content...)
}

// StepContext describes one transition
type StepContext struct {
	*EpisodeContext

	Step      int
	State     State
	Action    Action
	NextState State
	Reward    float64
}

func NewStepContext(eCtx *EpisodeContext, step int) *StepContext {
	eCtx.Report.setEpisodeStep(step)
	return &StepContext{
		EpisodeContext: eCtx,
		Step:           step,
	}
}

// REPORT CONFIGURATION

// Configuration of the report
type ReportsPrintConfig struct {
	PrintStd      bool `yaml:"print_std"`      // print the report standard representation
	PrintValues   bool `yaml:"print_values"`   // print the report values representation
	PrintTimeline bool `yaml:"print_timeline"` // print the report timeline representation

	PrintIfError      bool `yaml:"print_if_error"`        // print the report if an error occurs
	PrintIfOutOfSpace bool `yaml:"print_if_out_of_space"` // print the report if the episode left the state space

	Sampling float32 `yaml:"sampling"` // rate of randomly printed reports (for successful episodes)
}

// configuration of the report with no printing
func RepConfigOff() *ReportsPrintConfig {
	return &ReportsPrintConfig{}
}

// prints std and values versions on errors, and a successful episode with probability 0.02
func RepConfigStandard() *ReportsPrintConfig {
	return &ReportsPrintConfig{
		PrintStd:          true,
		PrintValues:       true,
		PrintIfError:      true,
		PrintIfOutOfSpace: true,
		Sampling:          0.02,
	}
}

// prints everything for every episode
func RepConfigComplete() *ReportsPrintConfig {
	return &ReportsPrintConfig{
		PrintStd:          true,
		PrintValues:       true,
		PrintTimeline:     true,
		PrintIfError:      true,
		PrintIfOutOfSpace: true,
		Sampling:          1.0,
	}
}

// EPISODE REPORT

// Report of an episode
type EpisodeReport struct {
	EpisodeNumber  int
	ExperimentName string
	episodeStep    int

	nextIndex int       // next available index for an entry
	startTime time.Time // start time to compute timestamp of an entry

	lock *sync.Mutex

	Timeline    []*EpisodeReportEntry // all the entries ordered by index
	TimeValues  map[string][]*EpisodeReportEntry
	IntValues   map[string][]*EpisodeReportEntry
	FloatValues map[string][]*EpisodeReportEntry
	Logs        map[string]string
}

func NewEpisodeReport(episodeNumber int, experimentName string) *EpisodeReport {
	return &EpisodeReport{
		EpisodeNumber:  episodeNumber,
		ExperimentName: experimentName,
		startTime:      time.Now(),
		lock:           &sync.Mutex{},
		Timeline:       make([]*EpisodeReportEntry, 0),
		TimeValues:     make(map[string][]*EpisodeReportEntry),
		IntValues:      make(map[string][]*EpisodeReportEntry),
		FloatValues:    make(map[string][]*EpisodeReportEntry),
		Logs:           make(map[string]string),
	}
}

func (e *EpisodeReport) setEpisodeStep(step int) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.episodeStep = step
}

func (e *EpisodeReport) addEntry(value interface{}, entryType, caller string, values map[string][]*EpisodeReportEntry) {
	e.lock.Lock()
	defer e.lock.Unlock()

	entry := &EpisodeReportEntry{
		Index:       e.nextIndex,
		Timestamp:   time.Since(e.startTime),
		EpisodeStep: e.episodeStep,
		EntryType:   entryType,
		Caller:      caller,
		Value:       value,
	}
	e.nextIndex += 1
	e.Timeline = append(e.Timeline, entry)
	values[entryType] = append(values[entryType], entry)
}

// add a new entry of type int to the report
func (e *EpisodeReport) AddIntEntry(value int, entryType string, caller string) {
	e.addEntry(value, entryType, caller, e.IntValues)
}

// add a new entry of type float64 to the report
func (e *EpisodeReport) AddFloatEntry(value float64, entryType string, caller string) {
	e.addEntry(value, entryType, caller, e.FloatValues)
}

// add a new entry of type time.Duration to the report
func (e *EpisodeReport) AddTimeEntry(value time.Duration, entryType string, caller string) {
	e.addEntry(value, entryType, caller, e.TimeValues)
}

func (e *EpisodeReport) AddLog(value string, key string) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.Logs[key] = value
}

// Entries of the given type, in insertion order
func (e *EpisodeReport) Entries(entryType string) []*EpisodeReportEntry {
	e.lock.Lock()
	defer e.lock.Unlock()
	for _, values := range []map[string][]*EpisodeReportEntry{e.IntValues, e.FloatValues, e.TimeValues} {
		if entries, ok := values[entryType]; ok {
			return entries
		}
	}
	return nil
}

// return a string representation of the report timeline
func (e *EpisodeReport) StringTimeline() string {
	result := "Length: " + fmt.Sprintf("%d", len(e.Timeline)) + "\n"
	result = fmt.Sprintf("%s%s", result, StringEntriesList(e.Timeline))
	return result
}

// return a string representation of the report entries per type
func (e *EpisodeReport) StringPerType() string {
	result := ""
	for _, values := range []map[string][]*EpisodeReportEntry{e.TimeValues, e.IntValues, e.FloatValues} {
		for entryType, entries := range values {
			result = fmt.Sprintf("%s\n%s [%d]:\n%s", result, entryType, len(entries), StringEntriesListLite(entries))
		}
	}
	for key, value := range e.Logs {
		result = fmt.Sprintf("%s\n%s :\n%s", result, key, value)
	}
	return result
}

// return a string representation of the report entries values per type
func (e *EpisodeReport) StringPerTypeValues() string {
	result := ""
	for _, values := range []map[string][]*EpisodeReportEntry{e.TimeValues, e.IntValues, e.FloatValues} {
		for entryType, entries := range values {
			result = fmt.Sprintf("%s\n%s :\n%s\n", result, entryType, StringEntriesValuesList(entries))
		}
	}
	return result
}

// ENTRY

// Entry of the Report
type EpisodeReportEntry struct {
	Index     int           // index of the entry, managed by the report
	Timestamp time.Duration // timestamp of the entry, managed by the report

	EpisodeStep int         // episode step
	EntryType   string      // entry type
	Caller      string      // the method adding the entry
	Value       interface{} // entry value
}

// return a string representation of the entry
func (en *EpisodeReportEntry) String() string {
	return fmt.Sprintf("[ %6d | %5d | %3d ] %20s : %12s (%20s)", en.Index, en.Timestamp.Milliseconds(), en.EpisodeStep, en.EntryType, en.StringValue(), en.Caller)
}

// return a string representation of the entry value
func (en *EpisodeReportEntry) StringValue() string {
	switch v := en.Value.(type) {
	case time.Duration:
		return v.String()
	case int:
		return fmt.Sprintf("%3d", v)
	case float64:
		return fmt.Sprintf("%.3f", v)
	}
	return "N/A"
}

func (en *EpisodeReportEntry) StringLite() string {
	return fmt.Sprintf("[ %5d | %3d ] %12s (%20s)", en.Timestamp.Milliseconds(), en.EpisodeStep, en.StringValue(), en.Caller)
}

// return a string representation of the list of entries
func StringEntriesList(list []*EpisodeReportEntry) string {
	result := ""
	for _, entry := range list {
		result = fmt.Sprintf("%s%s\n", result, entry.String())
	}
	return result
}

// return a string representation of the list of entries
func StringEntriesListLite(list []*EpisodeReportEntry) string {
	result := ""
	for _, entry := range list {
		result = fmt.Sprintf("%s%s\n", result, entry.StringLite())
	}
	return result
}

// return a string representation of the list of entries values
func StringEntriesValuesList(list []*EpisodeReportEntry) string {
	result := ""
	for i, entry := range list {
		result = fmt.Sprintf("%s %s", result, entry.StringValue())
		if (i+1)%20 == 0 {
			result = fmt.Sprintf("%s\n", result)
		}
	}
	return result
}

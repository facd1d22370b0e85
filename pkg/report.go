package pkg

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// Report is the collected result of one full filtered iteration, the
// same view a throttling loop would consume, frozen for inspection.
type Report struct {
	TakenAt    time.Time        `json:"taken_at" yaml:"taken_at"`
	BootTime   int64            `json:"boot_time" yaml:"boot_time"`
	PidProcess map[int]*Process `json:"process" yaml:"process"`
	PidExec    map[int]string   `json:"pid_exec" yaml:"pid_exec"`
}

func NewReport() *Report {
	return &Report{
		PidProcess: map[int]*Process{},
		PidExec:    map[int]string{},
	}
}

// TakeReport drives one iteration to exhaustion and collects every
// qualifying record, annotated with the executable path where resolvable.
func TakeReport(filter *Filter, registry *ExcludeRegistry) (*Report, error) {
	report := NewReport()
	report.TakenAt = time.Now()
	log := logrus.StandardLogger()
	log.Infof("take process report at %s", report.TakenAt.Format(time.RFC3339))

	it, err := OpenIterator(filter, registry)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	report.BootTime = it.BootTime()

	for p := it.Next(); p != nil; p = it.Next() {
		report.PidProcess[p.Pid] = p
		gp, err := process.NewProcessWithContext(context.Background(), int32(p.Pid))
		if err != nil {
			continue
		}
		exec, _ := gp.Exe()
		report.PidExec[p.Pid] = exec
	}
	return report, nil
}

// Processes flattens the report into a record list.
func (r *Report) Processes() []*Process {
	ps := []*Process{}
	for _, p := range r.PidProcess {
		ps = append(ps, p)
	}
	return ps
}

func (r *Report) DumpFile(filepath string) {
	log := logrus.StandardLogger()
	if filepath == "" {
		now := r.TakenAt
		filepath = fmt.Sprintf("report-%s-%02d:%02d:%02d.json", now.Format("2006-01-02"), now.Hour(), now.Minute(), now.Second())
	}
	log.Infof("report to: %s", filepath)
	bytes := r.Dump()
	err := os.WriteFile(filepath, bytes, 0644)
	if err != nil {
		return
	}
}

func (r *Report) Dump() []byte {
	data, _ := json.Marshal(r)
	return data
}

func (r *Report) Print() []byte {
	data := r.Dump()
	fmt.Printf("%s", data)
	return data
}

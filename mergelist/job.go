package mergelist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Job is the ticket of a merge job handed out to a worker.
type Job struct {
	ID         int
	Campaign   string
	Worker     string
	SubmitPath string
}

// Active reports whether the ticket describes a real job.
func (j Job) Active() bool {
	return j.ID != 0
}

// DecodeJob reads the four ticket lines: id, campaign, worker and submit
// path. Missing lines leave the corresponding field at its zero value.
func DecodeJob(r io.Reader) (Job, error) {
	sc := bufio.NewScanner(r)

	var fields [4]string
	for i := range fields {
		if !sc.Scan() {
			break
		}
		fields[i] = strings.TrimSuffix(sc.Text(), "\r")
	}
	if err := sc.Err(); err != nil {
		return Job{}, err
	}

	job := Job{Campaign: fields[1], Worker: fields[2], SubmitPath: fields[3]}

	if idField := strings.TrimSpace(fields[0]); idField != "" {
		id, err := strconv.Atoi(idField)
		if err != nil {
			return Job{}, &ParseError{Line: 1, Reason: "job id", Kind: ErrCorruptJobFile, Cause: err}
		}
		job.ID = id
	}

	return job, nil
}

// EncodeJob writes the ticket in the format DecodeJob reads.
func EncodeJob(w io.Writer, job Job) error {
	for _, f := range []string{job.Campaign, job.Worker, job.SubmitPath} {
		if strings.ContainsAny(f, "\r\n") {
			return fmt.Errorf("%w: job field %q has a line break", ErrUnencodable, f)
		}
	}

	_, err := fmt.Fprintf(w, "%d\n%s\n%s\n%s\n", job.ID, job.Campaign, job.Worker, job.SubmitPath)
	return err
}

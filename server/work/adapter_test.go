package work

import (
	"bytes"
	"testing"
	"time"

	"github.com/nishikaramnani04/PIH2026-SHEield/server/store"
	"github.com/stretchr/testify/assert"
)

func TestPerform(t *testing.T) {
	dataStore, err := store.New("test-pass-phrase", t.TempDir())
	assert.Nil(t, err)
	defer dataStore.Stop()

	workerPool := NewWorkerAdapter(dataStore, "UTC")
	outputBuffer := new(bytes.Buffer)

	// Register job function
	writeToBuffer := func(m map[string]interface{}) error {
		_, err := outputBuffer.WriteString("Hello")
		return err
	}
	workerPool.Register("write_to_buffer", writeToBuffer)

	err = workerPool.Perform(JobParams{
		Name:    "write_to_buffer",
		Handler: "write_to_buffer",
		Args:    map[string]interface{}{},
	})
	assert.Nil(t, err)
	assert.Empty(t, outputBuffer.String(), "Expected outputBuffer to be empty before workers start")

	workerPool.Start()

	// Wait for job to be processed
	time.Sleep(2 * time.Second)

	workerPool.Stop()

	assert.Equal(t, "Hello", outputBuffer.String(), "Expected job to write to outputBuffer")
}

func TestPerformDeduplicatesQueuedJobs(t *testing.T) {
	dataStore, err := store.New("test-pass-phrase", t.TempDir())
	assert.Nil(t, err)
	defer dataStore.Stop()

	workerPool := NewWorkerAdapter(dataStore, "UTC")
	workerPool.Register("noop", func(map[string]interface{}) error { return nil })

	job := JobParams{Name: "noop", Handler: "noop", Args: map[string]interface{}{}}

	assert.Nil(t, workerPool.Perform(job))
	// A second enqueue of the same name while queued is silently dropped
	assert.Nil(t, workerPool.Perform(job))
}

package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Record marshals input/output, saves the session, and returns its id.
// Persisting is best effort: a failure is logged and the id still returned,
// so a broken store never turns a successful generation into an error.
func Record(ctx context.Context, store Service, experiment, source string, input, output interface{}) string {
	sessionID := NewSessionID()
	if store == nil {
		return sessionID
	}

	inJSON, err := json.Marshal(input)
	if err != nil {
		log.Warn().Err(err).Str("experiment", experiment).Msg("Failed to marshal session input")
		inJSON = []byte("{}")
	}
	outJSON, err := json.Marshal(output)
	if err != nil {
		log.Warn().Err(err).Str("experiment", experiment).Msg("Failed to marshal session output")
		outJSON = []byte("{}")
	}

	rec := Generation{
		SessionID:  sessionID,
		Experiment: experiment,
		Source:     source,
		InputJSON:  string(inJSON),
		OutputJSON: string(outJSON),
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.SaveGeneration(ctx, rec); err != nil {
		log.Warn().Err(err).Str("experiment", experiment).Msg("Failed to save generation session")
	}
	return sessionID
}

package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	biasFile    = "cognitive-biases.json"
	emotionFile = "emotion-mapping.json"
	personaFile = "personas.json"
	workoutFile = "sample-workouts.json"
)

// Load reads every knowledge document from dir. The four files are decoded
// concurrently; each goroutine writes to its own field of the Base, so no
// locking is needed. Any missing or malformed file fails the whole load,
// which the caller treats as fatal at startup.
func Load(dir string) (*Base, error) {
	base := &Base{}

	var g errgroup.Group

	g.Go(func() error {
		return readDocument(filepath.Join(dir, biasFile), &base.biases)
	})
	g.Go(func() error {
		return readDocument(filepath.Join(dir, emotionFile), &base.emotions)
	})
	g.Go(func() error {
		return readDocument(filepath.Join(dir, personaFile), &base.personas)
	})
	g.Go(func() error {
		return readDocument(filepath.Join(dir, workoutFile), &base.workouts)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(base.biases.Biases) == 0 {
		return nil, fmt.Errorf("%s contains no bias records", biasFile)
	}
	if len(base.emotions.Mappings) == 0 {
		return nil, fmt.Errorf("%s contains no mood mappings", emotionFile)
	}

	log.Info().
		Int("biases", len(base.biases.Biases)).
		Int("moods", len(base.emotions.Mappings)).
		Int("archetypes", len(base.personas.Archetypes)).
		Int("sample_workouts", len(base.workouts.SampleWorkouts)).
		Msg("Knowledge base loaded")

	return base, nil
}

func readDocument(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading knowledge document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

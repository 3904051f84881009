package services

import "context"

type contextKey string

const (
	performerKey contextKey = "performer"
	runIDKey     contextKey = "run_id"
	stageKey     contextKey = "stage"
	songKey      contextKey = "song"
)

// WithPerformer annotates context with the performer whose booklet is being built.
func WithPerformer(ctx context.Context, performer string) context.Context {
	if performer == "" {
		return ctx
	}
	return context.WithValue(ctx, performerKey, performer)
}

// PerformerFromContext returns the performer name if present.
func PerformerFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(performerKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithSong annotates context with the category/folder label of the current song.
func WithSong(ctx context.Context, song string) context.Context {
	if song == "" {
		return ctx
	}
	return context.WithValue(ctx, songKey, song)
}

// SongFromContext returns the song label if present.
func SongFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(songKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

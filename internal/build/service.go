package build

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"easyapp_server/internal/materialize"
	"easyapp_server/internal/metrics"
	"easyapp_server/internal/store"
	"easyapp_server/internal/types"
)

// ValidationError names the first required input that is missing or blank.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Input is the raw, unvalidated form of a build request.
type Input struct {
	AppName            string
	FeatureDescription string
	AdIdentifier       string
	Icon               *materialize.Source
	References         []materialize.Source
}

// Validate checks app name, description, icon and identifier in that order and reports the
// first one that fails.
func (in Input) Validate() error {
	switch {
	case strings.TrimSpace(in.AppName) == "":
		return &ValidationError{Field: "appName", Message: "Please enter an app name."}
	case strings.TrimSpace(in.FeatureDescription) == "":
		return &ValidationError{Field: "featureDescription", Message: "Please describe the app's features."}
	case in.Icon == nil:
		return &ValidationError{Field: "icon", Message: "Please upload an app icon."}
	case strings.TrimSpace(in.AdIdentifier) == "":
		return &ValidationError{Field: "adIdentifier", Message: "Please enter an AdMob app ID."}
	}
	return nil
}

// Generator produces the six project files for a validated request.
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (types.ProjectFiles, error)
}

// Service runs generation attempts against a session's store.
type Service struct {
	generator Generator
}

func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// Run validates in, then drives st from Loading to Ready or Failed. Validation and
// ErrBuildInProgress failures leave st untouched and happen before any file is read or any
// network call is made.
func (s *Service) Run(ctx context.Context, st *store.Store, in Input) (types.ProjectFiles, error) {
	if err := in.Validate(); err != nil {
		metrics.IncGeneration("rejected")
		return types.ProjectFiles{}, err
	}

	attempt, err := st.Begin()
	if err != nil {
		metrics.IncGeneration("rejected")
		return types.ProjectFiles{}, err
	}
	start := time.Now()
	defer func() { metrics.ObserveGenerationDuration(time.Since(start)) }()

	files, err := s.generate(ctx, in)
	if err != nil {
		metrics.IncGeneration("failed")
		log.Printf("Generation failed for app %q: %v", in.AppName, err)
		_ = attempt.Fail(err)
		return types.ProjectFiles{}, err
	}

	metrics.IncGeneration("ready")
	_ = attempt.Succeed(files, in.AppName, in.AdIdentifier)
	return files, nil
}

func (s *Service) generate(ctx context.Context, in Input) (files types.ProjectFiles, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()

	req := types.GenerationRequest{
		AppName:            in.AppName,
		FeatureDescription: in.FeatureDescription,
		AdIdentifier:       in.AdIdentifier,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		icon, err := materialize.Binary(gctx, *in.Icon)
		if err != nil {
			return fmt.Errorf("icon: %w", err)
		}
		req.Icon = icon
		return nil
	})
	g.Go(func() error {
		refs, err := materialize.TextFiles(gctx, in.References)
		if err != nil {
			return fmt.Errorf("reference files: %w", err)
		}
		req.ReferenceFiles = refs
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.IncError("materialize", "decode")
		return types.ProjectFiles{}, err
	}

	return s.generator.Generate(ctx, req)
}

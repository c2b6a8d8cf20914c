package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/mkaran/cvsift/internal/capability"
	"github.com/mkaran/cvsift/internal/engine"
	"github.com/mkaran/cvsift/internal/parser"
	"github.com/mkaran/cvsift/internal/schema"
	"github.com/mkaran/cvsift/internal/textnorm"
)

// Worker processes a single resume parse job: parse the file to text,
// normalize, resolve all schema fields in sequence, assemble rows.
type Worker struct {
	caps *capability.InferenceClient
	sch  *schema.Schema
	log  *slog.Logger

	contextChars      int
	pdfFallback       bool
	capabilityRetries bool
}

func NewWorker(caps *capability.InferenceClient, sch *schema.Schema, log *slog.Logger, contextChars int, pdfFallback bool) *Worker {
	return &Worker{
		caps:              caps,
		sch:               sch,
		log:               log,
		contextChars:      contextChars,
		pdfFallback:       pdfFallback,
		capabilityRetries: true,
	}
}

// Process runs the full parse pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse file to text.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.pdfFallback
	}

	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.ContentHash = ContentHashHex([]byte(src.Text))

	// Phase 2: Normalize into line and sentence views.
	job.SetStatus(StatusNormalizing, "normalizing")
	doc := textnorm.Normalize(src.Text)

	// Phase 3: Resolve schema fields, strictly in order.
	job.SetStatus(StatusResolving, "resolving")
	resolver := engine.NewResolver(w.qa(), w.ner(), w.log, w.contextChars)
	resolver.OnProgress(job.SetFieldProgress)

	results, err := resolver.Resolve(ctx, doc, w.sch)
	if err != nil {
		// Only a fully empty document reaches here; it yields zero rows.
		log.Warn("nothing extracted", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "resolving")
		return
	}

	// Phase 4: Assemble the ordered row set.
	job.SetStatus(StatusAssembling, "assembling")
	rows := engine.Assemble(w.sch, results)
	job.SetRows(rows)

	log.Info("parse complete",
		"fields", len(rows),
		"resolved", job.Snapshot().Progress.FieldsResolved,
		"pages", src.Pages,
	)
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) qa() capability.AnswerExtractor {
	if w.capabilityRetries {
		return RetryingQA{Inner: w.caps, Log: w.log}
	}
	return w.caps
}

func (w *Worker) ner() capability.EntityRecognizer {
	if w.capabilityRetries {
		return RetryingNER{Inner: w.caps, Log: w.log}
	}
	return w.caps
}

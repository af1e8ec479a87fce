package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxStatementLen = 300

type pgxSpanKey struct{}

// PGXTracer implements pgx.QueryTracer, recording one client span per
// catalog query with the (truncated) statement attached.
type PGXTracer struct{}

func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	operation := "query"
	if fields := strings.Fields(data.SQL); len(fields) > 0 {
		operation = strings.ToLower(fields[0])
	}
	ctx, span := otel.Tracer("jaci-api/db").Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", truncateStatement(data.SQL)),
		),
	)
	return context.WithValue(ctx, pgxSpanKey{}, span)
}

func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(pgxSpanKey{}).(trace.Span)
	if !ok {
		return
	}
	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, data.Err.Error())
	} else {
		span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
	}
	span.End()
}

func truncateStatement(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > maxStatementLen {
		return trimmed[:maxStatementLen] + "..."
	}
	return trimmed
}

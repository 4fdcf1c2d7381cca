package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lisboa-tech/olympo-cli/internal/billing"
	"github.com/lisboa-tech/olympo-cli/internal/opportunity"
	"github.com/lisboa-tech/olympo-cli/internal/rubric"
	"github.com/lisboa-tech/olympo-cli/pkg/webhook"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(newWebhookClient(), catalog, cfg.Server.AllowedOrigins),
		}

		go waitAndShutdown(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// waitAndShutdown blocks until ctx is cancelled, then drains in-flight
// requests. The signal context is already dead at that point, so shutdown
// gets its own deadline.
func waitAndShutdown(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
}

func newRouter(client *webhook.Client, catalog *rubric.Catalog, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/dashboard", handleDashboard(client))
	r.Get("/api/metrics", handleMetrics(client))
	r.Get("/api/opportunities", handleOpportunities(client))
	r.Get("/api/agent", handleAgent(client))
	r.Post("/api/classify", handleClassify(client, catalog))

	return r
}

// handleDashboard serves the landing-page overview: billing KPIs plus the
// opportunity breakdowns, fetched from both webhooks concurrently.
func handleDashboard(client *webhook.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, records, err := client.FetchAll(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, "erro ao buscar dados", err)
			return
		}

		metrics := billing.Aggregate(payload.Usage, payload.Fees)
		writeJSON(w, http.StatusOK, map[string]any{
			"kpis":          billing.Summarize(metrics),
			"metricas":      metrics,
			"por_step":      opportunity.CountByStep(records),
			"por_status":    opportunity.CountByStatus(records),
			"oportunidades": len(records),
		})
	}
}

func handleMetrics(client *webhook.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := client.FetchBilling(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, "erro ao buscar dados", err)
			return
		}

		metrics := billing.Aggregate(payload.Usage, payload.Fees)

		q := r.URL.Query()
		filtered := billing.Filter(metrics, q["cliente"], q["mes"])

		writeJSON(w, http.StatusOK, map[string]any{
			"metricas": filtered,
			"kpis":     billing.Summarize(filtered),
			"clientes": billing.Clients(metrics),
			"meses":    billing.MonthsPresent(metrics),
		})
	}
}

func handleOpportunities(client *webhook.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := client.FetchOpportunities(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, "erro ao buscar dados", err)
			return
		}

		q := r.URL.Query()
		filtered := opportunity.Filter(records, opportunity.Filters{
			Status:   q["status"],
			Step:     q["step"],
			Maturity: q["maturidade"],
			Growth:   q["crescimento"],
		})

		writeJSON(w, http.StatusOK, map[string]any{
			"registros":  filtered,
			"por_step":   opportunity.CountByStep(filtered),
			"por_status": opportunity.CountByStatus(filtered),
			"total":      len(filtered),
		})
	}
}

func handleAgent(client *webhook.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		text, err := client.AgentReport(r.Context(), q.Get("periodo"), q.Get("cliente"))
		if err != nil {
			writeError(w, http.StatusBadGateway, "erro ao consultar o agente", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"texto": text})
	}
}

type classifyRequest struct {
	Client  string         `json:"nome_do_cliente"`
	Answers rubric.Answers `json:"respostas"`
}

type classifyResponse struct {
	rubric.Result
	Analysis map[string]any `json:"analise_ia,omitempty"`
}

func handleClassify(client *webhook.Client, catalog *rubric.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "corpo inválido", err)
			return
		}

		result, err := rubric.Classify(req.Answers, catalog.Criteria, catalog.Overrides)
		if err != nil {
			var invalid *rubric.InvalidAnswerError
			if errors.As(err, &invalid) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
					"error":    invalid.Error(),
					"criterio": invalid.Criterion,
					"resposta": invalid.Option,
				})
				return
			}
			writeError(w, http.StatusInternalServerError, "falha na classificação", err)
			return
		}

		resp := classifyResponse{Result: *result}

		// The AI commentary is advisory; when the agent is down the
		// verdict still goes out, just without it.
		if client.HasAnalysis() {
			analysis, err := client.SubmitAnalysis(r.Context(), req.Answers)
			if err != nil {
				zap.L().Warn("serve: analysis unavailable",
					zap.String("client", req.Client),
					zap.Error(err),
				)
			} else {
				resp.Analysis = analysis
			}
		}

		// Audit registration is best-effort; the verdict does not wait on
		// it, and it must outlive the request context.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := client.RegisterSubmission(ctx, req.Client, req.Answers, result.Verdict)
			if err != nil {
				zap.L().Error("serve: register submission failed",
					zap.String("client", req.Client),
					zap.Error(err),
				)
				return
			}
			zap.L().Debug("serve: submission registered", zap.String("submission_id", id))
		}()

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

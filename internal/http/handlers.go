package http

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

const formDateLayout = "2006-01-02"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// "/" is a catch-all pattern; anything else that lands here is unknown.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	cats, tags, err := s.cachedSuggestions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Suggestions load error", "error", err)
	}

	data := struct {
		Today      string
		Categories []string
		Tags       []string
	}{
		Today:      time.Now().Format(formDateLayout),
		Categories: cats,
		Tags:       tags,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato de requisição inválido</div>`))
		return
	}

	// Dates live in UTC end to end: the stores persist UTC and the filter
	// bounds parse as UTC, so a day never shifts with the host timezone.
	now := time.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		d, err := time.Parse(formDateLayout, v)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Data inválida</div>`))
			return
		}
		date = d
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.Form.Get("amount")))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Valor inválido</div>`))
		return
	}

	installments := 1
	if v := strings.TrimSpace(r.Form.Get("installments")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			installments = n
		}
	}

	var tags []string
	for _, t := range r.Form["tags"] {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	entry := core.Entry{
		Date:          date,
		Description:   sanitizeInput(r.Form.Get("description")),
		Category:      sanitizeInput(r.Form.Get("category")),
		Amount:        core.Money{Cents: cents},
		Type:          core.TransactionType(strings.TrimSpace(r.Form.Get("type"))),
		PaymentMethod: sanitizeInput(r.Form.Get("payment_method")),
		Installments:  installments,
		Tags:          tags,
	}

	records, err := s.recorder.Record(r.Context(), entry)
	if err != nil {
		if isValidationError(err) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Dados inválidos: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
			return
		}
		slog.ErrorContext(r.Context(), "Transaction record error", "error", err, "description", entry.Description, "amount", entry.Amount.Cents)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erro ao salvar a transação</div>`))
		return
	}

	w.Header().Set("HX-Trigger", `{"transaction:created": {"count": `+strconv.Itoa(len(records))+`}}`)
	w.WriteHeader(http.StatusOK)
	msg := `Transação registrada: ` + template.HTMLEscapeString(entry.Description) +
		` (` + core.FormatReais(entry.Amount.Cents) + `)`
	if len(records) > 1 {
		msg += ` em ` + strconv.Itoa(len(records)) + ` parcelas`
	}
	_, _ = w.Write([]byte(`<div class="success">` + msg + `</div>`))
}

// isValidationError distinguishes form mistakes from storage failures.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrAmountRequired) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidType) ||
		errors.Is(err, core.ErrInvalidInstallments) ||
		errors.Is(err, core.ErrZeroDate) ||
		errors.Is(err, core.ErrDescriptionTooLong)
}

// handleDashboard renders the dashboard partial for the requested filter.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var filter core.Filter
	if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
		if d, err := time.Parse(formDateLayout, v); err == nil {
			filter.Start = d
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("end")); v != "" {
		if d, err := time.Parse(formDateLayout, v); err == nil {
			filter.End = d
		}
	}
	for _, t := range r.URL.Query()["tags"] {
		if t = strings.TrimSpace(t); t != "" {
			filter.Tags = append(filter.Tags, t)
		}
	}

	report, err := s.reports.Build(r.Context(), filter)
	switch {
	case errors.Is(err, core.ErrNoRecords):
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Nenhuma transação registrada ainda</div></section>`))
		return
	case errors.Is(err, core.ErrNoMatches):
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Nenhuma transação encontrada para os filtros selecionados</div></section>`))
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Dashboard build error", "error", err)
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Erro carregando o painel</div></section>`))
		return
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Saldo: ` + core.FormatReais(report.Balance.Cents) + `</div></section>`))
		return
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", buildDashboardView(report)); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard" class="dashboard"><div class="placeholder">Erro renderizando o painel</div></section>`))
	}
}

type dashboardView struct {
	TotalIncome  string
	TotalExpense string
	Balance      string
	Negative     bool
	Matched      int
	Monthly      []monthlyBar
	HasExpenses  bool
	ByCategory   []categoryBar
	Rows         []core.StatementRow
}

type monthlyBar struct {
	Label   string
	Type    core.TransactionType
	Amount  string
	Width   int
	Expense bool
}

type categoryBar struct {
	Name   string
	Amount string
	Width  int
}

// buildDashboardView formats a report for the template, scaling bar widths
// against the largest value of each series.
func buildDashboardView(rep core.Report) dashboardView {
	view := dashboardView{
		TotalIncome:  core.FormatReais(rep.TotalIncome.Cents),
		TotalExpense: core.FormatReais(rep.TotalExpense.Cents),
		Balance:      core.FormatReais(rep.Balance.Cents),
		Negative:     rep.Balance.Cents < 0,
		Matched:      rep.Matched,
		HasExpenses:  rep.HasExpenses,
		Rows:         rep.Rows,
	}

	var maxMonthly int64
	for _, p := range rep.Monthly {
		if p.Total.Cents > maxMonthly {
			maxMonthly = p.Total.Cents
		}
	}
	for _, p := range rep.Monthly {
		view.Monthly = append(view.Monthly, monthlyBar{
			Label:   p.Label,
			Type:    p.Type,
			Amount:  core.FormatReais(p.Total.Cents),
			Width:   barWidth(p.Total.Cents, maxMonthly),
			Expense: p.Type == core.Expense,
		})
	}

	var maxCategory int64
	for _, c := range rep.ByCategory {
		if c.Total.Cents > maxCategory {
			maxCategory = c.Total.Cents
		}
	}
	for _, c := range rep.ByCategory {
		view.ByCategory = append(view.ByCategory, categoryBar{
			Name:   c.Category,
			Amount: core.FormatReais(c.Total.Cents),
			Width:  barWidth(c.Total.Cents, maxCategory),
		})
	}

	return view
}

func barWidth(cents, max int64) int {
	if max <= 0 || cents <= 0 {
		return 0
	}
	width := int((cents*100 + max/2) / max) // rounded percent
	if width < 2 {                          // keep tiny values visible
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	s.handleRegistryAdd(w, r, "Categoria", s.registry.AddCategory)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	s.handleRegistryAdd(w, r, "Tag", s.registry.AddTag)
}

// handleRegistryAdd is the shared POST handler for both name registries.
func (s *Server) handleRegistryAdd(w http.ResponseWriter, r *http.Request, kind string, add func(ctx context.Context, name string) error) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Formato de requisição inválido</div>`))
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	if name == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Nome não pode ser vazio</div>`))
		return
	}

	if err := add(r.Context(), name); err != nil {
		slog.ErrorContext(r.Context(), "Registry add error", "error", err, "kind", kind, "name", name)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Erro ao salvar</div>`))
		return
	}

	s.invalidateSuggestions()
	w.Header().Set("HX-Trigger", `{"registry:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + kind + ` adicionada: ` + template.HTMLEscapeString(name) + `</div>`))
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/templui/balancewheel/internal/config"
	"github.com/templui/balancewheel/internal/ctxkeys"
	"github.com/templui/balancewheel/internal/hierarchy"
	"github.com/templui/balancewheel/internal/model"
	"github.com/templui/balancewheel/internal/period"
	"github.com/templui/balancewheel/internal/service"
)

type GoalHandler struct {
	goalService     *service.GoalService
	progressService *service.ProgressService
	cfg             *config.Config
}

func NewGoalHandler(goalService *service.GoalService, progressService *service.ProgressService, cfg *config.Config) *GoalHandler {
	return &GoalHandler{
		goalService:     goalService,
		progressService: progressService,
		cfg:             cfg,
	}
}

type titleRequest struct {
	Title string `json:"title"`
}

// Life goals

func (h *GoalHandler) LifeGoals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.LifeGoals(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load life goals")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(goals))
}

func (h *GoalHandler) CreateLifeGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Category string `json:"category"`
		Title    string `json:"title"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create life goal")
		return
	}

	category, err := model.ParseCategory(req.Category)
	if err != nil {
		writeServiceError(w, r, err, "failed to create life goal")
		return
	}

	goal, err := h.goalService.CreateLifeGoal(r.Context(), user.ID, category, req.Title)
	if err != nil {
		writeServiceError(w, r, err, "failed to create life goal")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) UpdateLifeGoal(w http.ResponseWriter, r *http.Request) {
	h.updateTitle(w, r, h.goalService.UpdateLifeGoal)
}

func (h *GoalHandler) DeleteLifeGoal(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.goalService.DeleteLifeGoal)
}

// Yearly goals

func (h *GoalHandler) YearlyGoals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.YearlyGoals(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load yearly goals")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(goals))
}

func (h *GoalHandler) CreateYearlyGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		LifeGoalID string `json:"life_goal_id"`
		Year       int    `json:"year"`
		Title      string `json:"title"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create yearly goal")
		return
	}

	goal, err := h.goalService.CreateYearlyGoal(r.Context(), user.ID, req.LifeGoalID, req.Year, req.Title)
	if err != nil {
		writeServiceError(w, r, err, "failed to create yearly goal")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) UpdateYearlyGoal(w http.ResponseWriter, r *http.Request) {
	h.updateTitle(w, r, h.goalService.UpdateYearlyGoal)
}

func (h *GoalHandler) DeleteYearlyGoal(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.goalService.DeleteYearlyGoal)
}

// Monthly goals

func (h *GoalHandler) MonthlyGoals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.MonthlyGoals(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load monthly goals")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(goals))
}

func (h *GoalHandler) CreateMonthlyGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		YearlyGoalID string `json:"yearly_goal_id"`
		Month        int    `json:"month"`
		Title        string `json:"title"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create monthly goal")
		return
	}

	goal, err := h.goalService.CreateMonthlyGoal(r.Context(), user.ID, req.YearlyGoalID, req.Month, req.Title)
	if err != nil {
		writeServiceError(w, r, err, "failed to create monthly goal")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) UpdateMonthlyGoal(w http.ResponseWriter, r *http.Request) {
	h.updateTitle(w, r, h.goalService.UpdateMonthlyGoal)
}

func (h *GoalHandler) DeleteMonthlyGoal(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.goalService.DeleteMonthlyGoal)
}

// Daily goals

type dailyGoalsResponse struct {
	Start string                  `json:"start"`
	End   string                  `json:"end"`
	Goals []service.DailyGoalView `json:"goals"`
	Error string                  `json:"error,omitempty"`
}

// DailyGoals lists the goals of ?date= (default today), or of the period
// containing it when ?period= is given.
func (h *GoalHandler) DailyGoals(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	ref, err := referenceTime(r, "date")
	if err != nil {
		writeServiceError(w, r, err, "failed to load daily goals")
		return
	}

	p := period.Day
	if v := r.URL.Query().Get("period"); v != "" {
		p, err = period.ParsePeriod(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	win, err := period.For(p, ref, h.cfg.WeekStartsOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := dailyGoalsResponse{Goals: []service.DailyGoalView{}}
	if !win.Unbounded() {
		resp.Start = win.Start.Format(time.DateOnly)
		resp.End = win.End.Format(time.DateOnly)
	}

	goals, err := h.goalService.DailyGoals(r.Context(), user.ID, win)
	switch {
	case isHierarchyError(err):
		resp.Error = err.Error()
	case err != nil:
		writeServiceError(w, r, err, "failed to load daily goals")
		return
	default:
		resp.Goals = goals
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GoalHandler) CreateDailyGoal(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		MonthlyGoalID string `json:"monthly_goal_id"`
		Day           int    `json:"day"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to create daily goal")
		return
	}

	goal, err := h.goalService.CreateDailyGoal(r.Context(), user.ID, req.MonthlyGoalID, req.Day)
	if err != nil {
		writeServiceError(w, r, err, "failed to create daily goal")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) DeleteDailyGoal(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.goalService.DeleteDailyGoal)
}

type toggleResponse struct {
	ID        string               `json:"id"`
	Completed bool                 `json:"completed"`
	Progress  distributionResponse `json:"progress"`
}

// Toggle flips a daily goal and returns the refreshed distribution of
// ?period= (default day) around ?at=.
func (h *GoalHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	p := period.Day
	if v := r.URL.Query().Get("period"); v != "" {
		var err error
		p, err = period.ParsePeriod(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	now, err := referenceTime(r, "at")
	if err != nil {
		writeServiceError(w, r, err, "failed to toggle daily goal")
		return
	}

	completed, dist, err := h.progressService.ToggleAndRefresh(r.Context(), user.ID, goalID, p, now)
	if err != nil && !isHierarchyError(err) {
		writeServiceError(w, r, err, "failed to toggle daily goal")
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{
		ID:        goalID,
		Completed: completed,
		Progress:  newDistributionResponse(dist, err),
	})
}

// SetCompletion sets a daily goal's state; repeating it is harmless.
func (h *GoalHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	goalID := r.PathValue("id")

	var req struct {
		Completed *bool `json:"completed"`
	}
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to update daily goal")
		return
	}
	if req.Completed == nil {
		writeError(w, http.StatusBadRequest, "completed is required")
		return
	}

	err = h.goalService.SetCompletion(r.Context(), user.ID, goalID, *req.Completed)
	if err != nil {
		writeServiceError(w, r, err, "failed to update daily goal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": goalID, "completed": *req.Completed})
}

// Seed creates placeholders for the given year and month, defaulting to
// the current ones.
func (h *GoalHandler) Seed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	now := time.Now().In(h.cfg.Location)

	req := struct {
		Year  int `json:"year"`
		Month int `json:"month"`
	}{Year: now.Year(), Month: int(now.Month())}
	if r.ContentLength > 0 {
		err := decodeJSON(w, r, &req)
		if err != nil {
			writeServiceError(w, r, err, "failed to seed goals")
			return
		}
	}

	result, err := h.goalService.SeedPlaceholders(r.Context(), user.ID, req.Year, req.Month)
	if err != nil {
		writeServiceError(w, r, err, "failed to seed goals")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *GoalHandler) updateTitle(w http.ResponseWriter, r *http.Request, update func(ctx context.Context, userID, goalID, title string) error) {
	user := ctxkeys.User(r.Context())

	var req titleRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to update goal")
		return
	}

	err = update(r.Context(), user.ID, r.PathValue("id"), req.Title)
	if err != nil {
		writeServiceError(w, r, err, "failed to update goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) delete(w http.ResponseWriter, r *http.Request, remove func(ctx context.Context, userID, goalID string) error) {
	user := ctxkeys.User(r.Context())

	err := remove(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isHierarchyError(err error) bool {
	return errors.Is(err, hierarchy.ErrMissingAncestor) || errors.Is(err, hierarchy.ErrInconsistentHierarchy)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

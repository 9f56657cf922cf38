// Package achievement implements the badge rules: activity-count
// milestones, the one-shot First Login badge, the persisted Weekly
// Champion badge and the read-time Going Green badge. All evaluation is
// synchronous within the request that triggers it and every rule is
// idempotent: once a (user, title) pair is awarded it can never be awarded
// again, enforced by the achievements table's unique key rather than by
// the check-then-insert lookup alone.
package achievement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ecotrack/carbon-tracker/internal/model"
	"github.com/ecotrack/carbon-tracker/internal/week"
)

// ErrDuplicate is the conflict signal a store must return when an
// achievement with the same (user, title) already exists. The engine
// treats it as "already awarded", never as a failure.
var ErrDuplicate = errors.New("achievement already exists")

// UserStore supplies the goal state consulted by goal-based rules.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// ActivityStore supplies activity counts and windowed emission sums.
// SumRange aggregates carbon footprints of the user's activities with
// created_at inside [from, to].
type ActivityStore interface {
	CountByUser(ctx context.Context, userID uint64) (int64, error)
	SumRange(ctx context.Context, userID uint64, from, to time.Time) (total float64, count int, err error)
}

// AchievementStore persists awarded badges. Create must fail with
// ErrDuplicate when the (user, title) pair exists.
type AchievementStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Achievement, error)
	HasTitle(ctx context.Context, userID uint64, title string) (bool, error)
	Create(ctx context.Context, a *model.Achievement) error
}

// milestone is an activity-count threshold unlocking a fixed title.
type milestone struct {
	Count       int64
	Title       string
	Description string
}

var milestones = []milestone{
	{1, "First Step", "Logged your first activity!"},
	{5, "Getting Greener", "Logged 5 activities."},
	{10, "Eco Tracker", "Logged 10 activities!"},
}

// Engine evaluates achievement rules against the stores. The optional
// Awarded hook runs after every successful insert; the server uses it to
// publish achievement.awarded events and bump metrics.
type Engine struct {
	Users        UserStore
	Activities   ActivityStore
	Achievements AchievementStore
	Awarded      func(model.Achievement)
}

func NewEngine(users UserStore, activities ActivityStore, achievements AchievementStore) *Engine {
	return &Engine{Users: users, Activities: activities, Achievements: achievements}
}

// award creates one badge unless the user already holds the title. It
// returns (nil, nil) for the already-awarded case: duplicates are no-ops,
// not errors. The HasTitle lookup is a fast path only; the unique key on
// (user_id, title) is what closes the race between concurrent requests.
func (e *Engine) award(ctx context.Context, userID uint64, title, description string, now time.Time) (*model.Achievement, error) {
	exists, err := e.Achievements.HasTitle(ctx, userID, title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	a := model.Achievement{
		UserID:      userID,
		Title:       title,
		Description: description,
		AchievedAt:  now,
	}
	if err := e.Achievements.Create(ctx, &a); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, nil
		}
		return nil, err
	}
	if e.Awarded != nil {
		e.Awarded(a)
	}
	return &a, nil
}

// CheckMilestones runs after every successful activity insert. A single
// insert may cross several thresholds at once (a user importing history
// can pass 1 and 5 in one pass); each missing badge up to the current
// count is created.
func (e *Engine) CheckMilestones(ctx context.Context, userID uint64, now time.Time) ([]model.Achievement, error) {
	count, err := e.Activities.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var awarded []model.Achievement
	for _, m := range milestones {
		if count < m.Count {
			continue
		}
		a, err := e.award(ctx, userID, m.Title, m.Description, now)
		if err != nil {
			return awarded, err
		}
		if a != nil {
			awarded = append(awarded, *a)
		}
	}
	return awarded, nil
}

// AwardFirstLogin grants the one-shot First Login badge. Call it from the
// login handler on the first successful login.
func (e *Engine) AwardFirstLogin(ctx context.Context, userID uint64, now time.Time) (*model.Achievement, error) {
	return e.award(ctx, userID, "First Login",
		"Welcome! You've successfully logged in for the first time.", now)
}

// AwardWeeklyChampion evaluates the previous completed Monday-based week
// and awards "Weekly Champion - {weekId}" when the user stayed under their
// weekly goal. It returns (nil, nil) without error when any skip condition
// holds: badge already awarded for that week, no weekly goal configured,
// zero activities in the previous week, or emissions above the goal. The
// week identifier inside the title caps the badge at one award per
// calendar week per user.
func (e *Engine) AwardWeeklyChampion(ctx context.Context, userID uint64, now time.Time) (*model.Achievement, error) {
	prev := week.PrevMondayRange(now)
	weekID := week.Identifier(prev.Start)
	title := fmt.Sprintf("Weekly Champion - %s", weekID)

	exists, err := e.Achievements.HasTitle(ctx, userID, title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	user, err := e.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.WeeklyGoal == nil {
		return nil, nil
	}

	total, count, err := e.Activities.SumRange(ctx, userID, prev.Start, prev.End)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	if total > *user.WeeklyGoal {
		return nil, nil
	}

	return e.award(ctx, userID, title,
		fmt.Sprintf("Stayed under your weekly goal of %g kg CO2 for week %s. Total emissions: %.2f kg.",
			*user.WeeklyGoal, weekID, total), now)
}

// Entry is one row of the merged achievement view. Persisted rows carry
// their numeric id rendered as a string; the synthesized Going Green entry
// uses a fixed id and the IsDynamic marker, and exists only for the
// request that produced it.
type Entry struct {
	ID          string    `json:"_id"`
	UserID      uint64    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AchievedAt  time.Time `json:"achievedAt"`
	IsDynamic   bool      `json:"isDynamic,omitempty"`
}

const dynamicGoingGreenID = "dynamic-going-green"

// List returns the merged achievement view: the dynamic Going Green entry
// (when qualifying) plus all persisted badges, sorted by achievedAt
// descending. The dynamic entry is timestamped now, so it sorts first
// whenever present. Nothing here writes to storage.
func (e *Engine) List(ctx context.Context, userID uint64, now time.Time) ([]Entry, error) {
	persisted, err := e.Achievements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(persisted)+1)
	if dyn, err := e.goingGreen(ctx, userID, now); err != nil {
		return nil, err
	} else if dyn != nil {
		entries = append(entries, *dyn)
	}
	for _, a := range persisted {
		entries = append(entries, Entry{
			ID:          fmt.Sprintf("%d", a.ID),
			UserID:      a.UserID,
			Title:       a.Title,
			Description: a.Description,
			AchievedAt:  a.AchievedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AchievedAt.After(entries[j].AchievedAt)
	})
	return entries, nil
}

// goingGreen recomputes the transient Going Green badge. The qualifying
// window opens at the later of the current Monday week start and the
// moment the goal was set, so redefining the goal resets the evaluation.
// The badge requires at least one qualifying activity and a windowed sum
// at or under the goal; it disappears on the next read once either fails.
func (e *Engine) goingGreen(ctx context.Context, userID uint64, now time.Time) (*Entry, error) {
	user, err := e.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.WeeklyGoal == nil || user.WeeklyGoalSetAt == nil {
		return nil, nil
	}

	from := week.MondayRange(now).Start
	if user.WeeklyGoalSetAt.After(from) {
		from = *user.WeeklyGoalSetAt
	}
	total, count, err := e.Activities.SumRange(ctx, userID, from, now)
	if err != nil {
		return nil, err
	}
	if count == 0 || total > *user.WeeklyGoal {
		return nil, nil
	}

	return &Entry{
		ID:          dynamicGoingGreenID,
		UserID:      userID,
		Title:       "Going Green",
		Description: fmt.Sprintf("You're staying under your weekly goal! Current: %.2f kg / Goal: %g kg", total, *user.WeeklyGoal),
		AchievedAt:  now,
		IsDynamic:   true,
	}, nil
}

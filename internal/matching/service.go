package matching

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/imadgeboyega/kiekky-matching/internal/directory"
	"github.com/imadgeboyega/kiekky-matching/internal/geo"
	"github.com/imadgeboyega/kiekky-matching/internal/likes"
)

// Config tunes paging and pool selection
type Config struct {
	DefaultLimit int
	MaxLimit     int
	ExcludeRoles []string
}

// DefaultConfig mirrors the configuration defaults
var DefaultConfig = Config{
	DefaultLimit: 10,
	MaxLimit:     50,
	ExcludeRoles: []string{"admin", "moderator"},
}

type Service struct {
	dir      directory.Directory
	ledger   *likes.Ledger
	selector *Selector
	ranker   *Ranker
	notifier Notifier
	cfg      Config
}

func NewService(dir directory.Directory, ledger *likes.Ledger, selector *Selector, ranker *Ranker, notifier Notifier, cfg Config) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if cfg.DefaultLimit < 1 {
		cfg.DefaultLimit = DefaultConfig.DefaultLimit
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = max(DefaultConfig.MaxLimit, cfg.DefaultLimit)
	}
	return &Service{
		dir:      dir,
		ledger:   ledger,
		selector: selector,
		ranker:   ranker,
		notifier: notifier,
		cfg:      cfg,
	}
}

// normalizePage applies defaults and caps to paging parameters
func (s *Service) normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return page, limit
}

// GetMatches draws a fresh working set of twice the page size and ranks it.
// Every call samples again, so page 2 is not a continuation of page 1.
func (s *Service) GetMatches(ctx context.Context, viewerID int64, q MatchQuery) (*MatchPage, error) {
	start := time.Now()
	page, limit := s.normalizePage(q.Page, q.Limit)

	viewer, err := s.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	pool, err := s.dir.ListCandidatePool(ctx, viewerID, s.cfg.ExcludeRoles)
	if err != nil {
		return nil, err
	}

	workingSet := s.selector.WorkingSet(pool, viewer.Tier, 2*limit, q.Refresh)
	result := s.ranker.Rank(viewer, workingSet, q.Filters, page, limit)

	recordPage(result, len(workingSet), time.Since(start))
	log.Debug().
		Int64("viewer_id", viewerID).
		Int("pool", len(pool)).
		Int("working_set", len(workingSet)).
		Int("returned", len(result.Matches)).
		Msg("matches ranked")

	return result, nil
}

// Like applies a like or unlike from viewerID to targetID
func (s *Service) Like(ctx context.Context, viewerID, targetID int64, action string) (*LikeResponse, error) {
	if targetID <= 0 {
		return nil, ErrMissingMatchID
	}
	if action != ActionLike && action != ActionUnlike {
		return nil, ErrInvalidAction
	}
	if action == ActionLike && viewerID == targetID {
		return nil, likes.ErrSelfLike
	}

	if _, err := s.dir.GetProfile(ctx, targetID); err != nil {
		if errors.Is(err, directory.ErrProfileNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	if action == ActionUnlike {
		res, err := s.ledger.Unlike(ctx, viewerID, targetID)
		if err != nil {
			return nil, err
		}
		recordLike(ActionUnlike)
		return &LikeResponse{Status: 0, LikeCount: res.LikeCount}, nil
	}

	res, err := s.ledger.Like(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	recordLike(ActionLike)

	if res.IsMutual {
		recordMutualLike()
		s.notifier.NotifyMutualLike(ctx, viewerID, targetID)
		log.Info().Int64("viewer_id", viewerID).Int64("candidate_id", targetID).Msg("mutual like")
	}

	mutual := res.IsMutual
	return &LikeResponse{IsMutualLike: &mutual, Status: 1, LikeCount: res.LikeCount}, nil
}

// ListLiked returns the ids viewerID has liked
func (s *Service) ListLiked(ctx context.Context, viewerID int64) ([]int64, error) {
	return s.ledger.ListLiked(ctx, viewerID)
}

// ListMutual pages through mutual likes in ascending id order
func (s *Service) ListMutual(ctx context.Context, viewerID int64, page, limit int) (*MutualPage, error) {
	page, limit = s.normalizePage(page, limit)

	ids, err := s.ledger.ListMutual(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	total := len(ids)
	from := min((page-1)*limit, total)
	to := min(from+limit, total)

	profiles, err := directory.NewProfileLoader(s.dir).LoadAll(ctx, ids[from:to])
	if err != nil {
		return nil, err
	}

	now := s.ranker.scorer.now()
	out := make([]*MutualProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toMutualProfile(p, now))
	}

	return &MutualPage{
		MutualLikes: out,
		Pagination: Pagination{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasMore: to < total,
		},
	}, nil
}

func toMutualProfile(p *directory.Profile, now time.Time) *MutualProfile {
	mp := &MutualProfile{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Images:      p.Images,
		Tier:        p.Tier,
		Bio:         p.Bio,
		LastActive:  p.LastActive,
	}
	if mp.DisplayName == "" {
		mp.DisplayName = p.Username
	}
	if mp.Images == nil {
		mp.Images = []string{}
	}
	if age, ok := p.AgeAt(now); ok {
		mp.Age = &age
	}
	return mp
}

// UpdateLocation validates and stores the viewer's coordinates
func (s *Service) UpdateLocation(ctx context.Context, viewerID int64, lat, lng *float64) (*geo.Coordinate, error) {
	loc := geo.NewCoordinate(lat, lng)
	if loc == nil {
		return nil, ErrInvalidLocation
	}

	if err := s.dir.UpdateLocation(ctx, viewerID, *loc); err != nil {
		if errors.Is(err, directory.ErrProfileNotFound) {
			return nil, ErrViewerNotFound
		}
		return nil, err
	}
	return loc, nil
}

func (s *Service) viewer(ctx context.Context, viewerID int64) (*directory.Profile, error) {
	viewer, err := s.dir.GetProfile(ctx, viewerID)
	if errors.Is(err, directory.ErrProfileNotFound) {
		return nil, ErrViewerNotFound
	}
	return viewer, err
}

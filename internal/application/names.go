package application

import (
	"context"

	"github.com/oksasatya/mycookbook-api/internal/domain/entity"
	repo "github.com/oksasatya/mycookbook-api/internal/domain/repository"
)

// fillNames sets the display names of recipe authors and, when raters is
// true, of every rater. Users that no longer exist keep an empty name.
func fillNames(ctx context.Context, users repo.UserRepository, raters bool, recs ...*entity.Recipe) error {
	seen := map[string]struct{}{}
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok && id != "" {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, r := range recs {
		add(r.AuthorID)
		if raters {
			for _, rt := range r.Ratings {
				add(rt.UserID)
			}
		}
	}
	names, err := lookupNames(ctx, users, ids)
	if err != nil {
		return err
	}
	for _, r := range recs {
		r.AuthorName = names[r.AuthorID]
		if raters {
			for i := range r.Ratings {
				r.Ratings[i].UserName = names[r.Ratings[i].UserID]
			}
		}
	}
	return nil
}

func fillCommentNames(ctx context.Context, users repo.UserRepository, comments []entity.Comment) error {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	names, err := lookupNames(ctx, users, ids)
	if err != nil {
		return err
	}
	for i := range comments {
		comments[i].AuthorName = names[comments[i].AuthorID]
	}
	return nil
}

func lookupNames(ctx context.Context, users repo.UserRepository, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range list {
		out[u.ID] = u.Name
	}
	return out, nil
}

func pointers(list []entity.Recipe) []*entity.Recipe {
	out := make([]*entity.Recipe, len(list))
	for i := range list {
		out[i] = &list[i]
	}
	return out
}

package handlers

import (
	"wanderlog/internal/models"
	"wanderlog/internal/repositories"
)

// authorLookup joins author details onto posts and comments at read time,
// caching each user for the duration of one response build. A missing author
// yields a nil summary rather than an error.
type authorLookup struct {
	repo  repositories.UserRepository
	cache map[uint]*models.AuthorSummary
}

func newAuthorLookup(repo repositories.UserRepository) *authorLookup {
	return &authorLookup{repo: repo, cache: map[uint]*models.AuthorSummary{}}
}

func (l *authorLookup) get(id uint) *models.AuthorSummary {
	if summary, ok := l.cache[id]; ok {
		return summary
	}
	user, err := l.repo.GetUserByID(id)
	if err != nil {
		l.cache[id] = nil
		return nil
	}
	summary := user.Summary()
	l.cache[id] = &summary
	return &summary
}

func (l *authorLookup) postView(post models.Post) models.PostView {
	return models.PostView{Post: post, Author: l.get(post.AuthorID)}
}

func (l *authorLookup) commentView(comment models.Comment) models.CommentView {
	return models.CommentView{Comment: comment, Author: l.get(comment.AuthorID)}
}

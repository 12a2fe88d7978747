package handler

import (
	"github.com/perspective/database/repository"
	handlertests "github.com/perspective/handler/tests"
)

func repositoryArticles(f *handlertests.Fixture) repository.Articles {
	return repository.Articles{DB: f.DB}
}

func repositoryComments(f *handlertests.Fixture) repository.Comments {
	return repository.Comments{DB: f.DB}
}

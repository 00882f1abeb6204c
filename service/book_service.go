// service/book_service.go
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/dao"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/util"
	helper_util "github.com/dev-mohitbeniwal/bookclub/util/helper"
)

type IBookService interface {
	AddBook(ctx context.Context, book model.Book, creatorID string) (*model.Book, error)
	GetBook(ctx context.Context, bookID string) (*model.Book, error)
	GetBooksByIDs(ctx context.Context, ids []string) ([]*model.Book, error)
	ListBooks(ctx context.Context, limit, offset int) ([]*model.Book, error)
}

type BookService struct {
	bookDAO        dao.IBookDAO
	validationUtil *util.ValidationUtil
	auditService   audit.Service
}

var _ IBookService = &BookService{}

func NewBookService(bookDAO dao.IBookDAO, validationUtil *util.ValidationUtil, auditService audit.Service) *BookService {
	return &BookService{
		bookDAO:        bookDAO,
		validationUtil: validationUtil,
		auditService:   auditService,
	}
}

func (s *BookService) AddBook(ctx context.Context, book model.Book, creatorID string) (*model.Book, error) {
	book.ISBN = strings.ReplaceAll(strings.TrimSpace(book.ISBN), "-", "")
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	if err := s.validationUtil.ValidateBook(book); err != nil {
		return nil, err
	}

	created, err := s.bookDAO.CreateBook(ctx, book)
	if err != nil {
		logger.Error("Error creating book", zap.Error(err), zap.String("isbn", book.ISBN), zap.String("creatorID", creatorID))
		return nil, err
	}

	recordAudit(ctx, s.auditService, audit.AuditLog{
		UserID:        creatorID,
		Action:        audit.ActionCreateBook,
		ResourceType:  "book",
		ResourceID:    created.ID,
		ChangeDetails: audit.Details(created),
	})
	return created, nil
}

func (s *BookService) GetBook(ctx context.Context, bookID string) (*model.Book, error) {
	return s.bookDAO.GetBook(ctx, bookID)
}

func (s *BookService) GetBooksByIDs(ctx context.Context, ids []string) ([]*model.Book, error) {
	return s.bookDAO.GetBooksByIDs(ctx, ids)
}

func (s *BookService) ListBooks(ctx context.Context, limit, offset int) ([]*model.Book, error) {
	limit, offset, err := helper_util.Pagination(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.bookDAO.ListBooks(ctx, limit, offset)
}

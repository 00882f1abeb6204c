// service/services.go
package service

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dev-mohitbeniwal/bookclub/audit"
	"github.com/dev-mohitbeniwal/bookclub/dao"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

type Services struct {
	User   IUserService
	Book   IBookService
	Club   IClubService
	Review IReviewService
	Rating IRatingService
}

func InitializeServices(
	ctx context.Context,
	driver neo4j.DriverWithContext,
	signer TokenSigner,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cache util.UserCache,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	if err := dao.EnsureConstraints(ctx, driver); err != nil {
		return nil, err
	}

	userDAO := dao.NewUserDAO(driver)
	bookDAO := dao.NewBookDAO(driver)
	clubDAO := dao.NewClubDAO(driver)
	reviewDAO := dao.NewReviewDAO(driver)
	ratingDAO := dao.NewRatingDAO(driver)

	services := &Services{
		User:   NewUserService(userDAO, signer, validationUtil, cache, notificationSvc, eventBus, auditService),
		Book:   NewBookService(bookDAO, validationUtil, auditService),
		Club:   NewClubService(clubDAO, validationUtil, notificationSvc, eventBus, auditService),
		Review: NewReviewService(reviewDAO, clubDAO, validationUtil, notificationSvc, eventBus, auditService),
		Rating: NewRatingService(ratingDAO, validationUtil, eventBus, auditService),
	}

	return services, nil
}

package v1

import (
	"github.com/carvisapp/carvis-backend/internal/infrastructure"
	"github.com/carvisapp/carvis-backend/internal/usecase"
	"github.com/carvisapp/carvis-backend/pkg/logger"
)

type V1 struct {
	img       usecase.ImageService
	cars      usecase.CarService
	links     usecase.LinkService
	users     usecase.UserService
	publisher infrastructure.Publisher
	logger    logger.Interface
}

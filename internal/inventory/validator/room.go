package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"hms/pkg/logger"
	"hms/pkg/model"
)

type RoomValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewRoomValidator(log *logger.Logger) *RoomValidator {
	return &RoomValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	if err := v.validate.Struct(room); err != nil {
		return err
	}
	return checkBedNumbersUnique(room.Beds)
}

func (v *RoomValidator) ValidateUpdate(update *model.RoomUpdate) error {
	return v.validate.Struct(update)
}

func (v *RoomValidator) ValidateBeds(beds []model.Bed) error {
	for i := range beds {
		if err := v.validate.Struct(&beds[i]); err != nil {
			return err
		}
	}
	return checkBedNumbersUnique(beds)
}

func checkBedNumbersUnique(beds []model.Bed) error {
	seen := make(map[string]bool, len(beds))
	for _, bed := range beds {
		if seen[bed.BedNumber] {
			return fmt.Errorf("duplicate bed number: %s", bed.BedNumber)
		}
		seen[bed.BedNumber] = true
	}
	return nil
}

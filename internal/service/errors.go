package service

import "errors"

var (
	// ErrOriginRequired is returned when the origin address is empty.
	ErrOriginRequired = errors.New("origin address is required")

	// ErrDestinationRequired is returned when the destination address is empty.
	ErrDestinationRequired = errors.New("destination address is required")

	// ErrAddressRequired is returned when a driver location update has no address.
	ErrAddressRequired = errors.New("address is required")

	// ErrAddressTooShort is returned when an address has fewer than 5 characters.
	ErrAddressTooShort = errors.New("address must have at least 5 characters")

	// ErrSameOriginDestination is returned when origin and destination match.
	ErrSameOriginDestination = errors.New("origin and destination cannot be the same")

	// ErrCategoryRequired is returned when the vehicle category is empty.
	ErrCategoryRequired = errors.New("vehicle category is required")

	// ErrUnknownCategory is returned when no tariff exists for a category.
	ErrUnknownCategory = errors.New("unknown vehicle category")

	// ErrEmailRequired is returned when a required email is empty.
	ErrEmailRequired = errors.New("email is required")

	// ErrInvalidEmail is returned when an email fails basic validation.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrEmailAlreadyUsed is returned on duplicate registration.
	ErrEmailAlreadyUsed = errors.New("email is already registered")

	// ErrNameRequired is returned when a registration has no name.
	ErrNameRequired = errors.New("name is required")

	// ErrInvalidRideID is returned when the ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrRideNotFound is returned when a ride ID does not resolve.
	ErrRideNotFound = errors.New("ride not found")

	// ErrUserNotFound is returned when an account lookup fails.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAPassenger is returned when a passenger-only action is attempted
	// by another account type.
	ErrNotAPassenger = errors.New("only passengers can perform this action")

	// ErrNotADriver is returned when a driver-only action is attempted by
	// another account type.
	ErrNotADriver = errors.New("only drivers can perform this action")

	// ErrCategoryMismatch is returned when a driver's vehicle category does
	// not match the ride's.
	ErrCategoryMismatch = errors.New("driver vehicle category does not match the ride")

	// ErrDriverNotAvailable is returned when a driver tries to accept a ride
	// while already bound to another.
	ErrDriverNotAvailable = errors.New("driver is not available")

	// ErrDriverNotAssigned is returned when a driver acts on a ride assigned
	// to someone else.
	ErrDriverNotAssigned = errors.New("driver is not assigned to this ride")

	// ErrRideNotAvailable is returned when acting on a ride that is no longer
	// in the REQUESTED state.
	ErrRideNotAvailable = errors.New("ride is no longer available")

	// ErrRideNotUpdatable is returned when updating a finalized or cancelled ride.
	ErrRideNotUpdatable = errors.New("ride is already finalized or cancelled")

	// ErrInvalidRideState is returned when the ride status forbids the action.
	ErrInvalidRideState = errors.New("ride status does not allow this action")

	// ErrRideCannotBeCancelled is returned when cancelling a ride past ACCEPTED.
	ErrRideCannotBeCancelled = errors.New("ride cannot be cancelled in current state")

	// ErrAlreadyRated is returned on rating gate re-entry.
	ErrAlreadyRated = errors.New("this ride was already rated")

	// ErrMissingData is returned when ETA/route recomputation lacks the
	// driver location, destination or category.
	ErrMissingData = errors.New("driver location, destination or category not set")

	// ErrInvalidDateRange is returned when a history query range is inverted.
	ErrInvalidDateRange = errors.New("start date must be before end date")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

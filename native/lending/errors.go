package lending

import "errors"

var (
	ErrNilState               = errors.New("lending engine: state not configured")
	ErrNotAuthorized          = errors.New("lending engine: caller is not the platform owner")
	ErrAlreadyInitialized     = errors.New("lending engine: platform already initialized")
	ErrNotInitialized         = errors.New("lending engine: platform not initialized")
	ErrInvalidAmount          = errors.New("lending engine: invalid amount")
	ErrInvalidPrice           = errors.New("lending engine: invalid price")
	ErrInvalidAsset           = errors.New("lending engine: asset not recognized")
	ErrInvalidLoanID          = errors.New("lending engine: invalid loan id")
	ErrInsufficientCollateral = errors.New("lending engine: insufficient collateral")
	ErrLoanNotFound           = errors.New("lending engine: loan not found")
	ErrLoanNotActive          = errors.New("lending engine: loan not active")
	ErrInvalidLiquidation     = errors.New("lending engine: invalid liquidation")
)

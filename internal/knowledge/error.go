package knowledge

// ContractError reports an observation that violates the calling
// contract between the board and the agent. The agent's state is left
// untouched when one is returned.
type ContractError struct {
	message string
}

// [ContractError] implements [error]
func (e ContractError) Error() string {
	return e.message
}

var (
	ErrOutOfBounds  = ContractError{"cell out of bounds"}
	ErrCellObserved = ContractError{"cell already observed"}
	ErrKnownMine    = ContractError{"observed a cell known to be a mine"}
	ErrBadMineCount = ContractError{"neighbor mine count out of range"}
)

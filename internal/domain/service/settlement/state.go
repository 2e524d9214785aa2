package settlement

// SpinState — шаг расчёта спина.
type SpinState int

const (
	StateWheelLoaded SpinState = iota + 1
	StateBalanceVerified
	StateStakeDebited
	StatePrizeResolved
	StateSettled
	StateRejected
)

func (s SpinState) String() string {
	switch s {
	case StateWheelLoaded:
		return "WHEEL_LOADED"
	case StateBalanceVerified:
		return "BALANCE_VERIFIED"
	case StateStakeDebited:
		return "STAKE_DEBITED"
	case StatePrizeResolved:
		return "PRIZE_RESOLVED"
	case StateSettled:
		return "SETTLED"
	case StateRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

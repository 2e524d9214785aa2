package entity

// Wheel — собранный барабан и ставка, с которой он был собран.
type Wheel struct {
	Slots Slots
	Tier  Tier
	Stake Stake
}

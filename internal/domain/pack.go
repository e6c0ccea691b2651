package domain

// PointPack is a purchasable top-up. The payment itself is simulated; only
// Points is credited, the displayed price never influences the balance.
type PointPack struct {
	ID     string `json:"id"`
	Points int    `json:"points"`
	Price  string `json:"price"`
	Label  string `json:"label"`
}

// PointPacks lists the packs offered on the pricing screen.
var PointPacks = []PointPack{
	{ID: "starter", Points: 500, Price: "$1", Label: "Starter"},
	{ID: "pro", Points: 2000, Price: "$2", Label: "Pro"},
	{ID: "elite", Points: 10000, Price: "$4", Label: "Elite"},
}

// PackByID returns the pack with the given ID.
func PackByID(id string) (PointPack, error) {
	for _, p := range PointPacks {
		if p.ID == id {
			return p, nil
		}
	}
	return PointPack{}, ErrUnknownPack
}

package quadrant

// Quadrant is one of the four cashflow quadrants.
type Quadrant string

const (
	Employee      Quadrant = "employee"
	SelfEmployed  Quadrant = "self_employed"
	BusinessOwner Quadrant = "business_owner"
	Investor      Quadrant = "investor"
)

// Label is the display name of the quadrant.
func (q Quadrant) Label() string {
	switch q {
	case Employee:
		return "Employee"
	case SelfEmployed:
		return "Self-employed"
	case BusinessOwner:
		return "Business Owner"
	case Investor:
		return "Investor"
	}
	return "None"
}

// Position places an income mix on the quadrant grid. X and Y lie in
// [-1, 1]: employees sit top-right, the self-employed top-left, business
// owners bottom-left and investors bottom-right.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	// Dominant is the quadrant with the largest income, empty when there is none.
	Dominant Quadrant `json:"dominant"`
}

// Locate computes the grid position for the given monthly incomes.
func Locate(employee, selfEmployed, businessOwner, investor float64) Position {
	total := employee + selfEmployed + businessOwner + investor
	if total == 0 {
		return Position{}
	}

	p := Position{
		X: (investor - selfEmployed) / total,
		Y: (employee - businessOwner) / total,
	}

	best := 0.0
	for _, c := range []struct {
		q Quadrant
		v float64
	}{
		{Employee, employee},
		{SelfEmployed, selfEmployed},
		{BusinessOwner, businessOwner},
		{Investor, investor},
	} {
		if c.v > best {
			best, p.Dominant = c.v, c.q
		}
	}
	return p
}

// Region returns the quadrant the point (x, y) falls in. Points on an axis
// belong to the quadrant on the positive side.
func Region(x, y float64) Quadrant {
	switch {
	case x >= 0 && y >= 0:
		return Employee
	case x < 0 && y >= 0:
		return SelfEmployed
	case x < 0:
		return BusinessOwner
	default:
		return Investor
	}
}

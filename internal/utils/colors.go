package utils

type colors struct {
	c map[string]int
}

var Colors = colors{
	// Palette: https://coolors.co/7fb069-d33f49-2176ae-ffd23f-5865f2
	c: map[string]int{
		"Asparagus":     0x7fb069,
		"Rusty red":     0xd33f49,
		"Honolulu Blue": 0x2176ae,
		"Sunglow":       0xffd23f,
		"Blurple":       0x5865f2,
	},
}

// Ok returns the color code for success messages
func (c colors) Ok() int {
	return c.c["Asparagus"]
}

// Info returns the color code for informational messages
func (c colors) Info() int {
	return c.c["Honolulu Blue"]
}

// Error returns the color code for error messages
func (c colors) Error() int {
	return c.c["Rusty red"]
}

// Gold returns the color code for giveaway announcements
func (c colors) Gold() int {
	return c.c["Sunglow"]
}

// Brand returns the platform brand color
func (c colors) Brand() int {
	return c.c["Blurple"]
}

package weather

// rainWeatherCodes are the OpenWeatherMap condition codes that count as
// precipitation: thunderstorm (2xx), drizzle (3xx), rain (5xx) and snow (6xx).
var rainWeatherCodes = map[int]struct{}{
	// thunderstorm
	200: {}, 201: {}, 202: {}, 210: {}, 211: {}, 212: {}, 221: {}, 230: {}, 231: {}, 232: {},
	// drizzle
	300: {}, 301: {}, 302: {}, 310: {}, 311: {}, 312: {}, 313: {}, 314: {}, 321: {},
	// rain
	500: {}, 501: {}, 502: {}, 503: {}, 504: {}, 511: {}, 520: {}, 521: {}, 522: {}, 531: {},
	// snow
	600: {}, 601: {}, 602: {}, 611: {}, 612: {}, 613: {}, 615: {}, 616: {}, 620: {}, 621: {}, 622: {},
}

// isRainCode reports whether an OpenWeatherMap condition code means precipitation.
func isRainCode(code int) bool {
	_, ok := rainWeatherCodes[code]
	return ok
}

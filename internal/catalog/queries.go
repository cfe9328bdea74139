package catalog

// definitions is indexed by QueryID. Identifiers are quoted where PostgreSQL
// would otherwise fold case ("magType") or read a type name ("time").
// Descending rankings over nullable columns say NULLS LAST: PostgreSQL sorts
// NULLs first under DESC, SQLite last.
var definitions = [queryCount]Definition{
	TopStrongest: {
		Key:   "top-strongest",
		Label: "Top 10 strongest earthquakes (mag)",
		SQL: `SELECT *
FROM earthquake
ORDER BY mag DESC NULLS LAST
LIMIT 10`,
	},
	TopDeepest: {
		Key:   "top-deepest",
		Label: "Top 10 deepest earthquakes (depth)",
		SQL: `SELECT *
FROM earthquake
ORDER BY depth DESC NULLS LAST
LIMIT 10`,
	},
	ShallowStrong: {
		Key:   "shallow-strong",
		Label: "Shallow earthquakes < 50 km and mag > 7.5",
		SQL: `SELECT *
FROM earthquake
WHERE depth < 50 AND mag > 7.5`,
	},
	AvgMagByMagType: {
		Key:   "avg-mag-by-magtype",
		Label: "Average magnitude per magnitude type (magType)",
		SQL: `SELECT "magType", AVG(mag) AS avg_mag
FROM earthquake
GROUP BY "magType"`,
	},
	BusiestYear: {
		Key:   "busiest-year",
		Label: "Year with most earthquakes",
		SQL: `SELECT year, COUNT(*) AS eq_count
FROM earthquake
GROUP BY year
ORDER BY eq_count DESC, year DESC
LIMIT 1`,
	},
	BusiestMonth: {
		Key:   "busiest-month",
		Label: "Month with highest number of earthquakes",
		SQL: `SELECT month, COUNT(*) AS eq_count
FROM earthquake
GROUP BY month
ORDER BY eq_count DESC
LIMIT 1`,
	},
	BusiestWeekday: {
		Key:   "busiest-weekday",
		Label: "Day of week with most earthquakes",
		SQL: `SELECT day_of_week, COUNT(*) AS day_count
FROM earthquake
GROUP BY day_of_week
ORDER BY day_count DESC
LIMIT 1`,
	},
	CountByHour: {
		Key:   "count-by-hour",
		Label: "Count of earthquakes per hour of day",
		SQL: `SELECT CAST(EXTRACT(HOUR FROM "time") AS INTEGER) AS hour_of_day,
       COUNT(*) AS eq_count
FROM earthquake
GROUP BY hour_of_day
ORDER BY hour_of_day`,
		SQLiteSQL: `SELECT CAST(strftime('%H', "time") AS INTEGER) AS hour_of_day,
       COUNT(*) AS eq_count
FROM earthquake
GROUP BY hour_of_day
ORDER BY hour_of_day`,
	},
	BusiestNetwork: {
		Key:   "busiest-network",
		Label: "Most active reporting network (net)",
		SQL: `SELECT net, COUNT(*) AS net_count
FROM earthquake
GROUP BY net
ORDER BY net_count DESC
LIMIT 1`,
	},
	ReviewedVsAutomatic: {
		Key:   "reviewed-vs-automatic",
		Label: "Reviewed vs automatic earthquakes",
		SQL: `SELECT status, COUNT(*) AS count
FROM earthquake
WHERE status IN ('reviewed', 'automatic')
GROUP BY status`,
	},
	CountByType: {
		Key:   "count-by-type",
		Label: "Count by earthquake type",
		SQL: `SELECT type, COUNT(*) AS count
FROM earthquake
GROUP BY type`,
	},
	CountByDatatype: {
		Key:   "count-by-datatype",
		Label: "Number of earthquakes by datatype (types)",
		SQL: `SELECT types, COUNT(*) AS type_count
FROM earthquake
GROUP BY types
ORDER BY types ASC`,
	},
	HighStationCoverage: {
		Key:   "high-station-coverage",
		Label: "Events with high station coverage (nst > avg)",
		SQL: `SELECT *
FROM earthquake
WHERE nst > (
    SELECT AVG(nst)
    FROM earthquake
    WHERE nst IS NOT NULL
)`,
	},
	TsunamisPerYear: {
		Key:   "tsunamis-per-year",
		Label: "Tsunami triggered earthquakes per year",
		SQL: `SELECT year, COUNT(*) AS tsunami_count
FROM earthquake
WHERE tsunami = 1
GROUP BY year`,
	},
	AlertLevels: {
		Key:   "alert-levels",
		Label: "Count earthquakes by alert levels",
		SQL: `SELECT alert, COUNT(*) AS alert_count
FROM earthquake
WHERE alert IS NOT NULL
GROUP BY alert
ORDER BY alert_count DESC`,
	},
	TopCountriesLatestYear: {
		Key:   "top-countries-latest-year",
		Label: "Top 5 countries with highest average magnitude",
		SQL: `SELECT country, AVG(mag) AS avg_mag
FROM earthquake
WHERE year >= (SELECT MAX(year) FROM earthquake)
GROUP BY country
ORDER BY avg_mag DESC NULLS LAST
LIMIT 5`,
	},
	DualDepthRegime: {
		Key:   "dual-depth-regime",
		Label: "Countries with both shallow and deep earthquakes in same month",
		SQL: `SELECT country, month
FROM earthquake
GROUP BY country, month
HAVING
    SUM(CASE WHEN depth < 70 THEN 1 ELSE 0 END) > 0
AND SUM(CASE WHEN depth > 70 THEN 1 ELSE 0 END) > 0`,
	},
	MostActiveRegions: {
		Key:   "most-active-regions",
		Label: "Top 3 most seismically active regions",
		SQL: `SELECT country,
       COUNT(*) AS no_of_count,
       AVG(mag) AS avg_magnitude
FROM earthquake
GROUP BY country
ORDER BY no_of_count DESC, avg_magnitude DESC NULLS LAST
LIMIT 3`,
	},
	EquatorialDepth: {
		Key:   "equatorial-depth",
		Label: "Avg depth near equator (+-5 latitude)",
		SQL: `SELECT country, ROUND(CAST(AVG(depth) AS NUMERIC), 2) AS avg_depth
FROM earthquake
WHERE ABS(latitude) <= 5
GROUP BY country`,
	},
	TsunamiMagnitudeDelta: {
		Key:   "tsunami-magnitude-delta",
		Label: "Avg magnitude difference (tsunami vs non-tsunami)",
		SQL: `SELECT
    ROUND(CAST(AVG(CASE WHEN tsunami = 1 THEN mag END) AS NUMERIC), 2) AS with_tsunami,
    ROUND(CAST(AVG(CASE WHEN tsunami = 0 THEN mag END) AS NUMERIC), 2) AS without_tsunami,
    ROUND(CAST(
        AVG(CASE WHEN tsunami = 1 THEN mag END)
      - AVG(CASE WHEN tsunami = 0 THEN mag END) AS NUMERIC), 2
    ) AS magnitude_difference
FROM earthquake`,
	},
	LowReliability: {
		Key:   "low-reliability",
		Label: "Lowest data reliability (gap > 120 & rms > 0.6)",
		SQL: `SELECT *
FROM earthquake
WHERE gap > 120 AND rms > 0.6
ORDER BY gap DESC, rms DESC`,
	},
	DeepFocus: {
		Key:   "deep-focus",
		Label: "Regions with highest deep focus earthquakes (>300km)",
		SQL: `SELECT latitude, longitude, place, depth, mag
FROM earthquake
WHERE depth > 300`,
	},
}

func init() {
	for i := range definitions {
		definitions[i].ID = QueryID(i)
	}
}

// Package domain models the daily forum page-view series and the views derived
// from it for charting.
//
// # Data Source
//
// The input is the freeCodeCamp forum page-view export: one row per calendar
// day from May 2016 to December 2019, with a "date" column (ISO 8601) and a
// "value" column holding that day's page-view count. Rows may arrive in any
// order; a [Series] is always sorted by date and never holds two observations
// for the same day.
//
// Dates are normalised to midnight UTC. Any time-of-day component in the
// source is dropped because the series is daily.
//
// # Outlier Band
//
// The export contains spikes (bot traffic, outages) that flatten every chart.
// Observations outside the [2.5th, 97.5th] percentile band are removed before
// rendering. Percentiles use linear interpolation between the two closest
// ranks, position q*(n-1) over the sorted values, which matches the default
// quantile method of numpy and pandas:
//
//	values: 10 20 30 40   q=0.5  ->  pos 1.5  ->  20 + 0.5*(30-20) = 25
//
// The band is computed once, over the original series, and is inclusive on
// both ends. Filtering an already filtered series with the same [Bounds] is a
// no-op.
//
// # Derived Views
//
// Charts never read the series directly beyond the line chart. The bar chart
// reads a [MonthlyAverageTable] (year x calendar month means) and the box plots
// read [Groups] bucketed by year and by month. Month order is always calendar
// order (January..December), never alphabetical.
package domain

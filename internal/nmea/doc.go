// Package nmea decodes NMEA-0183 GGA, GLL, GSA, RMC, VTG and GSV
// sentences into typed records and projects them onto tabular rows.
//
// A batch is decoded for one selected type: sentences of other types are
// skipped, malformed ones are counted, and the rest become records in
// input order. GSV rows are padded to the widest sentence in the batch.
package nmea

// Package processor dispatches named commands with string parameters.
//
// CsvConnector handles config generation and data loading and forwards
// everything else to the next Handler in the chain, normally BaseHandler.
// Commands come from the CLI or from scripts of the form
//
//	GenerateCsvConfig(configFile="orders.yaml", csvHeaderFile="orders.csv");
//	LoadCsv(configFile="orders.yaml", csvDataFile="orders.csv", header="true");
//	ExtractData();
package processor

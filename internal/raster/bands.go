package raster

// BandName enumerates the science data sets of a VNP46A2 granule. The set
// is closed: requesting anything outside it is a programming error, not a
// property of the input file.
type BandName string

const (
	BandDNBBRDFCorrectedNTL          BandName = "DNB_BRDF-Corrected_NTL"
	BandDNBLunarIrradiance           BandName = "DNB_Lunar_Irradiance"
	BandGapFilledDNBBRDFCorrectedNTL BandName = "Gap_Filled_DNB_BRDF-Corrected_NTL"
	BandLatestHighQualityRetrieval   BandName = "Latest_High_Quality_Retrieval"
	BandMandatoryQualityFlag         BandName = "Mandatory_Quality_Flag"
	BandQFCloudMask                  BandName = "QF_Cloud_Mask"
	BandSnowFlag                     BandName = "Snow_Flag"
)

// BandNames lists every legal science data set name.
func BandNames() []BandName {
	return []BandName{
		BandDNBBRDFCorrectedNTL,
		BandDNBLunarIrradiance,
		BandGapFilledDNBBRDFCorrectedNTL,
		BandLatestHighQualityRetrieval,
		BandMandatoryQualityFlag,
		BandQFCloudMask,
		BandSnowFlag,
	}
}

// Valid reports whether the name belongs to the closed set.
func (n BandName) Valid() bool {
	switch n {
	case BandDNBBRDFCorrectedNTL,
		BandDNBLunarIrradiance,
		BandGapFilledDNBBRDFCorrectedNTL,
		BandLatestHighQualityRetrieval,
		BandMandatoryQualityFlag,
		BandQFCloudMask,
		BandSnowFlag:
		return true
	}
	return false
}

func (n BandName) String() string { return string(n) }

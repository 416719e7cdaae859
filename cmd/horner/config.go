package main

import (
	"github.com/spf13/viper"
)

const defaultConfigFileName = "horner.toml"

func initConfig(fileName string) error {
	viper.SetConfigFile(fileName)
	viper.SetDefault("hash.lanes", 4)
	viper.SetDefault("dist.buckets", 64)
	return viper.ReadInConfig()
}

// seed words; 0/0 means draw a random seed at startup.
func configGetSeedLo() uint64 { return viper.GetUint64("seed.lo") }

func configGetSeedHi() uint64 { return viper.GetUint64("seed.hi") }

func configGetLanes() int { return viper.GetInt("hash.lanes") }

func configGetDistBuckets() int { return viper.GetInt("dist.buckets") }
